package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"inkwell/internal/config"
	"inkwell/internal/database"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "inkwell",
	Short: "Blog content API",
	Long: `inkwell serves a JSON API for managing blog posts and categories.

Example usage:
  inkwell serve                  # Run the HTTP server
  inkwell migrate up             # Apply pending migrations
  inkwell seed                   # Load sample categories and posts
  inkwell --config inkwell.yaml serve`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file (environment variables take precedence)")
}

// initConfig loads configuration and installs the default logger.
func initConfig(w io.Writer) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := newLogger(w, cfg.LogLevel, cfg.JSONLogs())
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	slog.Debug("configuration loaded", "env", cfg.Env, "addr", cfg.Addr())
	return nil
}

// newLogger builds a text or JSON slog logger at the named level.
func newLogger(w io.Writer, level string, jsonOutput bool) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}

	opts := &slog.HandlerOptions{Level: lvl}
	if jsonOutput {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// openDB connects to PostgreSQL using the loaded configuration.
func openDB(ctx context.Context) (*pgxpool.Pool, error) {
	pool, err := database.Connect(ctx, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	return pool, nil
}
