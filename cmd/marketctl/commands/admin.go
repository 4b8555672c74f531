package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/database"
	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/database/repository"
	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/database/service"
)

var (
	adminName     string
	adminEmail    string
	adminPassword string
)

// createAdminCmd registers an administrator account
var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an administrator account",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, db, err := environment()
		if err != nil {
			return err
		}
		defer closeDB(db)

		auth := service.NewAuthService(
			repository.NewStore(db),
			service.NewCredentialStore(cfg),
			database.NewMemoryRevocationStore(),
			log,
		)

		user, err := auth.CreateAdmin(service.RegisterInput{
			Name:     adminName,
			Email:    adminEmail,
			Password: adminPassword,
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Administrator %s created with id %d.\n", user.Email, user.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(createAdminCmd)
	createAdminCmd.Flags().StringVar(&adminName, "name", "Administrator", "Display name")
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "Login email")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "Login password")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("password")
}
