package database

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/database/models"
)

// SeedUser carries a plaintext password, hashed before insert
type SeedUser struct {
	ID          uint    `json:"user_id"`
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	PhoneNumber *string `json:"phone_number"`
	Address     *string `json:"address"`
	IsAdmin     bool    `json:"is_admin"`
}

// SeedData is the layout of a seed file
type SeedData struct {
	Users           []SeedUser              `json:"users"`
	MakeModelYears  []models.MakeModelYear  `json:"makemodelyears"`
	Cars            []models.Car            `json:"cars"`
	Listings        []models.Listing        `json:"listings"`
	CarTransactions []models.CarTransaction `json:"car_transactions"`
}

// SeedSummary counts inserted rows per table
type SeedSummary map[string]int

// serialColumns maps tables to their primary key, for resetting PostgreSQL sequences
var serialColumns = map[string]string{
	"users":            "user_id",
	"makemodelyear":    "make_model_year_id",
	"cars":             "car_id",
	"listings":         "listing_id",
	"car_transactions": "transaction_id",
}

// LoadSeedFile reads and parses a JSON seed file
func LoadSeedFile(path string) (*SeedData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("file '%s' not found", path)
		}
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var data SeedData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("invalid JSON file format: %w", err)
	}
	return &data, nil
}

// Seed inserts data in one transaction, parents before children.
// hash turns a plaintext password into its stored form.
func Seed(db *gorm.DB, data *SeedData, hash func(string) (string, error)) (SeedSummary, error) {
	summary := SeedSummary{}
	now := time.Now().UTC()

	err := db.Transaction(func(tx *gorm.DB) error {
		for _, u := range data.Users {
			if u.Password == "" {
				return fmt.Errorf("user %q: password is required", u.Email)
			}
			hashed, err := hash(u.Password)
			if err != nil {
				return fmt.Errorf("user %q: %w", u.Email, err)
			}
			user := models.User{
				ID:          u.ID,
				Name:        u.Name,
				Email:       u.Email,
				Password:    hashed,
				PhoneNumber: u.PhoneNumber,
				Address:     u.Address,
				IsAdmin:     u.IsAdmin,
			}
			if err := tx.Create(&user).Error; err != nil {
				return fmt.Errorf("user %q: %w", u.Email, err)
			}
		}
		summary["users"] = len(data.Users)

		for i := range data.MakeModelYears {
			if err := tx.Create(&data.MakeModelYears[i]).Error; err != nil {
				return fmt.Errorf("makemodelyear %d: %w", i, err)
			}
		}
		summary["makemodelyear"] = len(data.MakeModelYears)

		for i := range data.Cars {
			if err := tx.Omit(clause.Associations).Create(&data.Cars[i]).Error; err != nil {
				return fmt.Errorf("car %d: %w", i, err)
			}
		}
		summary["cars"] = len(data.Cars)

		for i := range data.Listings {
			l := &data.Listings[i]
			if l.Status == "" {
				l.Status = models.ListingAvailable
			}
			if l.DatePosted.IsZero() {
				l.DatePosted = now
			}
			if err := tx.Omit(clause.Associations).Create(l).Error; err != nil {
				return fmt.Errorf("listing %d: %w", i, err)
			}
		}
		summary["listings"] = len(data.Listings)

		for i := range data.CarTransactions {
			t := &data.CarTransactions[i]
			if t.TransactionDate.IsZero() {
				t.TransactionDate = now
			}
			if err := tx.Omit(clause.Associations).Create(t).Error; err != nil {
				return fmt.Errorf("car transaction %d: %w", i, err)
			}
		}
		summary["car_transactions"] = len(data.CarTransactions)

		return syncSequences(tx)
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// syncSequences moves PostgreSQL serial sequences past explicitly seeded ids
func syncSequences(tx *gorm.DB) error {
	if tx.Dialector.Name() != "postgres" {
		return nil
	}
	for _, table := range Tables {
		column := serialColumns[table]
		stmt := fmt.Sprintf(
			"SELECT setval(pg_get_serial_sequence('%s', '%s'), COALESCE((SELECT MAX(%s) FROM %s), 0) + 1, false)",
			table, column, column, table,
		)
		if err := tx.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to reset sequence for %s: %w", table, err)
		}
	}
	return nil
}
