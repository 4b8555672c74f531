package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/config"
	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/database"
	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/logger"
)

var (
	// Global flags
	configFile string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "marketctl",
	Short: "Administrative tasks for the car marketplace database",
	Long: `marketctl manages the car marketplace schema and data.

Commands:
  migrate       - Apply schema migrations
  reset         - Drop every marketplace table
  seed          - Load users, catalog, cars, listings and transactions from JSON
  create-admin  - Create an administrator account`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configFile != "" {
			return os.Setenv("CONFIG_FILE", configFile)
		}
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML configuration file (overrides CONFIG_FILE)")
}

// environment loads configuration, logger and an open database handle
func environment() (*config.Config, *slog.Logger, *gorm.DB, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	log := logger.New(cfg)

	db, err := database.Open(cfg, log)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, log, db, nil
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
