package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/budgetsync/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [API]")
	fmt.Printf("    Base URL: %s\n", cfg.API.BaseURL)
	if cfg.API.Timeout > 0 {
		fmt.Printf("    Timeout:  %s\n", cfg.API.Timeout)
	} else {
		fmt.Println("    Timeout:  none")
	}
	fmt.Println()

	fmt.Println("  [User]")
	if cfg.User.ID > 0 {
		fmt.Printf("    ID: %d\n", cfg.User.ID)
	} else {
		fmt.Println("    ID: not configured")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Language: %s\n", cfg.General.Language)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Address:  %s\n", cfg.Server.Addr)
	fmt.Printf("    Database: %s\n", cfg.DBPath())
	if len(cfg.Server.CORSAllowOrigins) > 0 {
		fmt.Printf("    CORS:     %s\n", strings.Join(cfg.Server.CORSAllowOrigins, ", "))
	}
	fmt.Printf("    pprof:    %v\n", cfg.Server.EnablePprof)
	fmt.Println()

	fmt.Println("  [Log]")
	fmt.Printf("    Level:  %s\n", cfg.Log.Level)
	fmt.Printf("    Format: %s\n", cfg.Log.Format)
	fmt.Println()

	fmt.Println("  Environment overrides: " + strings.Join([]string{
		config.EnvAPIURL, config.EnvUserID, config.EnvLang,
		config.EnvDBPath, config.EnvCORSOrigins, config.EnvPprof,
	}, ", "))
	fmt.Println("  Run `budgetsync setup` to reconfigure.")
	return nil
}
