package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/database"
)

// migrateCmd creates or upgrades the schema
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply schema migrations",
	Long: `Apply pending schema migrations.

PostgreSQL uses the embedded goose migrations; SQLite is migrated from the models.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, log, db, err := environment()
		if err != nil {
			return err
		}
		defer closeDB(db)

		if err := database.Migrate(db, log); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "All tables created successfully.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
