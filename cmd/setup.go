package cmd

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/budgetsync/internal/config"
	"github.com/theirongolddev/budgetsync/internal/tui"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Choose the service, user, language, and theme",
	Args:  cobra.NoArgs,
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	saved, err := tui.RunSetup(cfg)
	if errors.Is(err, huh.ErrUserAborted) {
		fmt.Println("  Setup cancelled.")
		return nil
	}
	if err != nil {
		return err
	}
	cfg = saved

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `budgetsync setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
