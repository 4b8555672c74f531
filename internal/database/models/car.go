package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices render as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// MakeModelYear is a catalog entry shared by every car of that make, model and year.
type MakeModelYear struct {
	ID    uint   `gorm:"column:make_model_year_id;primaryKey" json:"make_model_year_id"`
	Make  string `gorm:"size:100;not null;uniqueIndex:idx_makemodelyear_combo" json:"make"`
	Model string `gorm:"size:100;not null;uniqueIndex:idx_makemodelyear_combo" json:"model"`
	Year  int    `gorm:"not null;uniqueIndex:idx_makemodelyear_combo" json:"year"`
}

// TableName overrides the table name
func (MakeModelYear) TableName() string {
	return "makemodelyear"
}

type CarCondition string

const (
	ConditionNew       CarCondition = "new"
	ConditionUsed      CarCondition = "used"
	ConditionCertified CarCondition = "certified"
)

func (c CarCondition) Valid() bool {
	switch c {
	case ConditionNew, ConditionUsed, ConditionCertified:
		return true
	}
	return false
}

// Car is a concrete vehicle for sale
type Car struct {
	ID              uint            `gorm:"column:car_id;primaryKey" json:"car_id"`
	Mileage         int             `gorm:"not null" json:"mileage"`
	Price           decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Condition       CarCondition    `gorm:"type:varchar(16);not null" json:"condition"`
	Description     *string         `gorm:"size:1000" json:"description"`
	ImageURL        *string         `gorm:"size:100" json:"image_url"`
	MakeModelYearID uint            `gorm:"not null;index" json:"make_model_year_id"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	// Relationships
	MakeModelYear *MakeModelYear `gorm:"constraint:OnDelete:RESTRICT" json:"make_model_year,omitempty"`
}

// TableName overrides the table name
func (Car) TableName() string {
	return "cars"
}
