package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/database"
	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/database/service"
)

// seedCmd loads a JSON seed file
var seedCmd = &cobra.Command{
	Use:   "seed <file.json>",
	Short: "Seed the database from a JSON file",
	Long: `Seed the database from a JSON file with the keys users, makemodelyears,
cars, listings and car_transactions. User passwords are hashed before insert.
Everything is inserted in a single transaction.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := database.LoadSeedFile(args[0])
		if err != nil {
			return err
		}

		cfg, log, db, err := environment()
		if err != nil {
			return err
		}
		defer closeDB(db)

		credentials := service.NewCredentialStore(cfg)
		summary, err := database.Seed(db, data, credentials.HashPassword)
		if err != nil {
			log.Error("❌ [Seed] Seeding failed", "error", err)
			return fmt.Errorf("an error occurred during database seeding: %w", err)
		}

		log.Info("🌱 [Seed] Database seeded",
			"users", summary["users"],
			"makemodelyear", summary["makemodelyear"],
			"cars", summary["cars"],
			"listings", summary["listings"],
			"car_transactions", summary["car_transactions"],
		)
		fmt.Fprintln(cmd.OutOrStdout(), "Database seeded successfully with data from the JSON file.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
