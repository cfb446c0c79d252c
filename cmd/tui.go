package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/budgetsync/internal/config"
	"github.com/theirongolddev/budgetsync/internal/dashboard"
	"github.com/theirongolddev/budgetsync/internal/tui"
	"github.com/theirongolddev/budgetsync/internal/tui/theme"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive dashboard",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

var flagLogFile string

func init() {
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write dashboard logs to this file")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// First run: ask where the service is before anything connects to it.
	if !config.Exists() && cfg.User.ID == 0 {
		saved, err := tui.RunSetup(cfg)
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup cancelled.")
			return nil
		}
		if err != nil {
			return err
		}
		cfg = saved
	}

	theme.SetActive(cfg.Appearance.Theme)

	// The terminal belongs to the dashboard, so logs go to a file or nowhere.
	logger := zerolog.Nop()
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		logger = zerolog.New(f).Level(zerolog.GlobalLevel()).With().Timestamp().Logger()
	}

	d, err := dashboard.New(cfg, dashboard.WithLogger(logger))
	if err != nil {
		return err
	}
	defer d.Close()

	return tui.Run(cmd.Context(), d, tui.WithLogger(logger))
}
