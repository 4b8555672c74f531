package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ListingStatus string

const (
	ListingAvailable ListingStatus = "available"
	ListingSold      ListingStatus = "sold"
)

func (s ListingStatus) Valid() bool {
	return s == ListingAvailable || s == ListingSold
}

// Listing offers a car for sale on behalf of a user. At most one listing per
// car may be available at a time; the database enforces this with a partial
// unique index.
type Listing struct {
	ID         uint          `gorm:"column:listing_id;primaryKey" json:"listing_id"`
	Status     ListingStatus `gorm:"column:listing_status;type:varchar(16);not null;default:'available'" json:"listing_status"`
	DatePosted time.Time     `gorm:"not null" json:"date_posted"`
	CarID      uint          `gorm:"not null;index" json:"car_id"`
	UserID     uint          `gorm:"not null;index" json:"user_id"`

	// Relationships
	Car  *Car  `gorm:"constraint:OnDelete:CASCADE" json:"car,omitempty"`
	User *User `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

// TableName overrides the table name
func (Listing) TableName() string {
	return "listings"
}

// CarTransaction records a completed purchase
type CarTransaction struct {
	ID              uint            `gorm:"column:transaction_id;primaryKey" json:"transaction_id"`
	TransactionDate time.Time       `gorm:"not null" json:"transaction_date"`
	Amount          decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	CarID           uint            `gorm:"not null;index" json:"car_id"`
	BuyerID         uint            `gorm:"not null;index" json:"buyer_id"`

	// Relationships
	Car   *Car  `gorm:"constraint:OnDelete:RESTRICT" json:"car,omitempty"`
	Buyer *User `gorm:"constraint:OnDelete:RESTRICT" json:"buyer,omitempty"`
}

// TableName overrides the table name
func (CarTransaction) TableName() string {
	return "car_transactions"
}
