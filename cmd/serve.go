package cmd

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/budgetsync/internal/server"
	"github.com/theirongolddev/budgetsync/internal/server/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the budget tracker service on a local SQLite database",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var (
	serveAddr  string
	serveDB    string
	servePprof bool
)

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config, :8080)")
	serveCmd.Flags().StringVar(&serveDB, "db", "", "SQLite database path")
	serveCmd.Flags().BoolVar(&servePprof, "pprof", false, "Serve pprof under /debug/pprof")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if os.Getenv(gin.EnvGinMode) == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	flags := cmd.Flags()
	if flags.Changed("addr") {
		cfg.Server.Addr = serveAddr
	}
	if flags.Changed("db") {
		cfg.Server.DBPath = serveDB
	}
	if flags.Changed("pprof") {
		cfg.Server.EnablePprof = servePprof
	}

	dbPath := cfg.DBPath()
	st, err := storage.Open(dbPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Error().Err(err).Msg("closing database")
		}
	}()
	log.Info().Str("path", dbPath).Msg("database ready")

	srv := server.New(st, server.WithLogger(log.With().Str("component", "server").Logger()))
	return srv.Run(cmd.Context(), cfg.Server, func(addr string) {
		fmt.Fprintf(cmd.OutOrStdout(), "  listening on http://%s\n", addr)
	})
}
