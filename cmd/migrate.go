package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"newsforge/internal/config"
	"newsforge/internal/store/postgres"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Long:  `Applies the embedded schema migrations to the configured Postgres database.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if err := postgres.Migrate(cfg.Storage.Postgres.MigrateURL()); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		fmt.Println("Migrations applied.")
		return nil
	},
	// The app (and its storage probe) is not needed for migrations.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
