package cmd

import (
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"

	"github.com/noteflow-ai/noteflow/internal/config"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long:  `Apply pending database migrations to the configured database.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.NewConfig()
		if err != nil {
			return err
		}

		source, _ := cmd.Flags().GetString("source")

		m, err := migrate.New(source, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to initialize migrations: %w", err)
		}
		defer m.Close()

		down, _ := cmd.Flags().GetBool("down")
		if down {
			err = m.Steps(-1)
		} else {
			err = m.Up()
		}
		if err != nil && err != migrate.ErrNoChange {
			return fmt.Errorf("migration failed: %w", err)
		}
		if err == migrate.ErrNoChange {
			fmt.Println("Database is up to date.")
			return nil
		}

		fmt.Println("Migrations applied.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().String("source", "file://migrations", "migration source URL")
	migrateCmd.Flags().Bool("down", false, "roll back the most recent migration")
}
