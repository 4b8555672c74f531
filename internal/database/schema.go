package database

import (
	"fmt"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/database/models"
)

// ActiveListingIndexSQL keeps at most one available listing per car.
const ActiveListingIndexSQL = `CREATE UNIQUE INDEX IF NOT EXISTS idx_listings_active_car ON listings (car_id) WHERE listing_status = 'available'`

// Tables lists every application table in dependency order.
var Tables = []string{"users", "makemodelyear", "cars", "listings", "car_transactions"}

// AutoMigrate creates the schema from the models. Used for SQLite and tests.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.MakeModelYear{},
		&models.Car{},
		&models.Listing{},
		&models.CarTransaction{},
	); err != nil {
		return fmt.Errorf("failed to auto-migrate models: %w", err)
	}

	if err := db.Exec(ActiveListingIndexSQL).Error; err != nil {
		return fmt.Errorf("failed to create active listing index: %w", err)
	}

	return nil
}

// DropAll removes every application table, children first.
func DropAll(db *gorm.DB) error {
	cascade := ""
	if db.Dialector.Name() == "postgres" {
		cascade = " CASCADE"
	}

	drop := append([]string{}, Tables...)
	drop = append(drop, "goose_db_version")

	for i := len(drop) - 1; i >= 0; i-- {
		stmt := fmt.Sprintf("DROP TABLE IF EXISTS %s%s", pq.QuoteIdentifier(drop[i]), cascade)
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to drop %s: %w", drop[i], err)
		}
	}

	return nil
}
