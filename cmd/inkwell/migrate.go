package main

import (
	"github.com/spf13/cobra"

	"inkwell/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage database schema migrations",
	Long: `Manage the embedded goose migrations.

Example usage:
  inkwell migrate up       # Apply all pending migrations
  inkwell migrate down     # Roll back the most recent migration
  inkwell migrate status   # Print applied and pending migrations`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pool, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer pool.Close()
		return database.Migrate(cmd.Context(), pool)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the most recent migration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pool, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer pool.Close()
		return database.Rollback(cmd.Context(), pool)
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print applied and pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pool, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer pool.Close()
		return database.Status(cmd.Context(), pool)
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateStatusCmd)
	rootCmd.AddCommand(migrateCmd)
}
