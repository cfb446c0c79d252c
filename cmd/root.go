// Package cmd implements the budgetsync CLI commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/budgetsync/internal/config"
	"github.com/theirongolddev/budgetsync/internal/dashboard"
)

var (
	flagAPIURL   string
	flagUser     int64
	flagLang     string
	flagLogLevel string
	flagEnvFile  string
)

// cfg is the effective configuration, resolved before any command runs.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "budgetsync",
	Short: "Budgets and expenses from your budget tracker service",
	Long: "Track budgets and expenses stored on a budget tracker REST service,\n" +
		"from the command line or an interactive dashboard.",
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	RunE:              runTUI,
}

// Execute is the main entry point called from main.go.
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	cancel()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagAPIURL, "api-url", "", "Budget service URL (overrides config and "+config.EnvAPIURL+")")
	pf.Int64VarP(&flagUser, "user", "u", 0, "User ID (overrides config and "+config.EnvUserID+")")
	pf.StringVar(&flagLang, "lang", "", "Language for error messages: en or fr")
	pf.StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&flagEnvFile, "env-file", ".env", "Environment file loaded before reading the environment")
}

// loadConfig resolves the configuration: file, then .env and the
// environment, then flags.
func loadConfig(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(flagEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", flagEnvFile, err)
	}

	loaded, err := config.Load()
	if err != nil {
		return err
	}
	if err := loaded.ApplyEnv(); err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("api-url") {
		loaded.API.BaseURL = flagAPIURL
	}
	if flags.Changed("user") {
		loaded.User.ID = flagUser
	}
	if flags.Changed("lang") {
		loaded.General.Language = flagLang
	}
	if flags.Changed("log-level") {
		loaded.Log.Level = flagLogLevel
	}

	if err := loaded.Validate(); err != nil {
		return err
	}
	if err := configureLogger(loaded.Log, os.Stderr); err != nil {
		return err
	}

	cfg = loaded
	return nil
}

// configureLogger sets up the global logger. Console output is the default
// and JSON is used when the format asks for it.
func configureLogger(lc config.LogConfig, out io.Writer) error {
	level := zerolog.InfoLevel
	if lc.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(lc.Level))
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", lc.Level, err)
		}
		level = parsed
	}
	zerolog.SetGlobalLevel(level)

	if !strings.EqualFold(lc.Format, config.FormatJSON) {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}
	log.Logger = log.Output(out).With().Timestamp().Logger()
	return nil
}

// newDashboard builds the dashboard for the effective configuration.
func newDashboard() (*dashboard.Dashboard, error) {
	return dashboard.New(cfg, dashboard.WithLogger(log.Logger))
}
