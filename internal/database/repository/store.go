package repository

import (
	"gorm.io/gorm"
)

// Store bundles every repository over one database handle. WithTx hands the
// callback a Store bound to a single transaction.
type Store struct {
	db *gorm.DB

	Users          UserRepository
	MakeModelYears MakeModelYearRepository
	Cars           CarRepository
	Listings       ListingRepository
	Transactions   CarTransactionRepository
}

// NewStore creates a store over db
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:             db,
		Users:          NewUserRepository(db),
		MakeModelYears: NewMakeModelYearRepository(db),
		Cars:           NewCarRepository(db),
		Listings:       NewListingRepository(db),
		Transactions:   NewCarTransactionRepository(db),
	}
}

// WithTx runs fn in a transaction. Returning an error rolls everything back.
// fn must use only the Store it is given.
func (s *Store) WithTx(fn func(tx *Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// DB exposes the underlying handle for health checks
func (s *Store) DB() *gorm.DB {
	return s.db
}
