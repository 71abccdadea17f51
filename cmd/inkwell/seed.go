package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"inkwell/internal/database"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load sample categories and posts",
	Long: `Apply pending migrations, then load the sample categories and posts.
Nothing is written when the database already holds any category.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		pool, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := database.Migrate(ctx, pool); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		return database.Seed(ctx, pool)
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
