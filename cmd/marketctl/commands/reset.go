package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/database"
)

var confirmReset bool

// resetCmd drops every marketplace table
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Drop all marketplace tables",
	Long: `Drop all marketplace tables and the migration history.
This permanently removes all data and requires --yes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirmReset {
			return errors.New("refusing to drop tables without --yes")
		}

		_, _, db, err := environment()
		if err != nil {
			return err
		}
		defer closeDB(db)

		if err := database.DropAll(db); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "All tables dropped successfully.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)
	resetCmd.Flags().BoolVar(&confirmReset, "yes", false, "Confirm that all data should be deleted")
}
