package service

import (
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/database/models"
	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/database/repository"
	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/policy"
)

// MarketplaceService owns every operation that changes who can buy a car:
// listing, selling, and deleting cars or catalog entries with dependents.
// Each operation runs in one transaction and locks the car row first.
type MarketplaceService interface {
	ListListings() ([]models.Listing, error)
	GetListing(id uint) (*models.Listing, error)
	CreateListing(actor policy.Actor, carID uint) (*models.Listing, error)
	UpdateListingStatus(actor policy.Actor, listingID uint, status models.ListingStatus) (*models.Listing, error)
	DeleteListing(actor policy.Actor, listingID uint) error

	PurchaseCar(actor policy.Actor, carID uint, amount decimal.Decimal) (*models.CarTransaction, error)
	ListTransactions(actor policy.Actor) ([]models.CarTransaction, error)
	GetTransaction(actor policy.Actor, id uint) (*models.CarTransaction, error)

	DeleteCar(actor policy.Actor, carID uint) error
	DeleteMakeModelYear(actor policy.Actor, id uint) error
}

type marketplaceService struct {
	store  *repository.Store
	logger *slog.Logger
	now    func() time.Time
}

// NewMarketplaceService creates a new marketplace service instance
func NewMarketplaceService(store *repository.Store, logger *slog.Logger) MarketplaceService {
	return &marketplaceService{
		store:  store,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// ==================== Listings ====================

func (s *marketplaceService) ListListings() ([]models.Listing, error) {
	return s.store.Listings.List()
}

func (s *marketplaceService) GetListing(id uint) (*models.Listing, error) {
	listing, err := s.store.Listings.FindByID(id)
	if err != nil {
		return nil, listingLookupError(err)
	}
	return listing, nil
}

func (s *marketplaceService) CreateListing(actor policy.Actor, carID uint) (*models.Listing, error) {
	s.logger.Info("📋 [Marketplace] Create listing", "car_id", carID, "user_id", actor.ID)

	if err := policy.Check(actor, policy.CreateListing, nil); err != nil {
		return nil, err
	}

	listing := &models.Listing{
		Status: models.ListingAvailable,
		CarID:  carID,
		UserID: actor.ID,
	}

	err := s.store.WithTx(func(tx *repository.Store) error {
		if _, err := tx.Cars.FindByIDForUpdate(carID); err != nil {
			return carLookupError(err)
		}

		if _, err := tx.Listings.FindAvailableByCar(carID); err == nil {
			return ErrCarAlreadyListed
		} else if !errors.Is(err, repository.ErrListingNotFound) {
			return err
		}

		listing.DatePosted = s.now()
		if err := tx.Listings.Create(listing); err != nil {
			// Lost a race against another lister; the partial index decided
			if _, ok := repository.IsConstraintViolation(err, repository.ConstraintUnique); ok {
				return ErrCarAlreadyListed
			}
			return err
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("⚠️ [Marketplace] Listing rejected", "car_id", carID, "error", err)
		return nil, err
	}

	s.logger.Info("✅ [Marketplace] Listing created", "listing_id", listing.ID, "car_id", carID)
	return s.GetListing(listing.ID)
}

// UpdateListingStatus supports available -> sold. Setting the current status
// again is a no-op, and a sold listing never becomes available again.
func (s *marketplaceService) UpdateListingStatus(actor policy.Actor, listingID uint, status models.ListingStatus) (*models.Listing, error) {
	s.logger.Info("🔁 [Marketplace] Update listing status", "listing_id", listingID, "status", status, "user_id", actor.ID)

	if !status.Valid() {
		return nil, NewValidationError("listing_status", "Must be one of: available, sold.")
	}
	if !actor.Authenticated() {
		return nil, policy.ErrUnauthenticated
	}

	err := s.store.WithTx(func(tx *repository.Store) error {
		listing, err := tx.Listings.FindByIDForUpdate(listingID)
		if err != nil {
			return listingLookupError(err)
		}
		if err := policy.Check(actor, policy.UpdateListing, policy.Owned(listing.UserID)); err != nil {
			return err
		}

		if listing.Status == status {
			return nil
		}
		if status == models.ListingAvailable {
			return ErrListingSold
		}

		sold, err := tx.Listings.MarkSold(listing.ID)
		if err != nil {
			return err
		}
		if !sold {
			return ErrListingSold
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetListing(listingID)
}

func (s *marketplaceService) DeleteListing(actor policy.Actor, listingID uint) error {
	s.logger.Info("🗑️ [Marketplace] Delete listing", "listing_id", listingID, "user_id", actor.ID)

	if !actor.Authenticated() {
		return policy.ErrUnauthenticated
	}

	return s.store.WithTx(func(tx *repository.Store) error {
		listing, err := tx.Listings.FindByIDForUpdate(listingID)
		if err != nil {
			return listingLookupError(err)
		}
		if err := policy.Check(actor, policy.DeleteListing, policy.Owned(listing.UserID)); err != nil {
			return err
		}
		return listingLookupError(tx.Listings.Delete(listing.ID))
	})
}

// ==================== Purchases ====================

// PurchaseCar sells the car to actor. Exactly one concurrent purchase of the
// same listing can succeed; the others see Conflict(unavailable).
func (s *marketplaceService) PurchaseCar(actor policy.Actor, carID uint, amount decimal.Decimal) (*models.CarTransaction, error) {
	if err := policy.Check(actor, policy.PurchaseCar, nil); err != nil {
		return nil, err
	}

	checks := &fieldChecker{}
	if !checks.money("amount", "Amount", amount) {
		return nil, checks.err()
	}

	s.logger.Info("💰 [Marketplace] Purchase attempt", "car_id", carID, "buyer_id", actor.ID, "amount", amount.String())

	txn := &models.CarTransaction{
		Amount:  amount,
		CarID:   carID,
		BuyerID: actor.ID,
	}

	err := s.store.WithTx(func(tx *repository.Store) error {
		car, err := tx.Cars.FindByIDForUpdate(carID)
		if err != nil {
			if errors.Is(err, repository.ErrCarNotFound) {
				return ErrInvalidCarRef
			}
			return err
		}

		listing, err := tx.Listings.FindAvailableByCar(carID)
		if err != nil {
			if errors.Is(err, repository.ErrListingNotFound) {
				return ErrCarUnavailable
			}
			return err
		}

		if !amount.Equal(car.Price) {
			return ErrPriceMismatch
		}

		sold, err := tx.Listings.MarkSold(listing.ID)
		if err != nil {
			return err
		}
		if !sold {
			return ErrCarUnavailable
		}

		txn.TransactionDate = s.now()
		return tx.Transactions.Create(txn)
	})
	if err != nil {
		s.logger.Warn("⚠️ [Marketplace] Purchase rejected", "car_id", carID, "buyer_id", actor.ID, "error", err)
		return nil, err
	}

	s.logger.Info("✅ [Marketplace] Car sold", "car_id", carID, "buyer_id", actor.ID, "transaction_id", txn.ID)
	return s.store.Transactions.FindByID(txn.ID)
}

func (s *marketplaceService) ListTransactions(actor policy.Actor) ([]models.CarTransaction, error) {
	if err := policy.Check(actor, policy.ReadTransactions, nil); err != nil {
		return nil, err
	}
	return s.store.Transactions.List()
}

func (s *marketplaceService) GetTransaction(actor policy.Actor, id uint) (*models.CarTransaction, error) {
	if err := policy.Check(actor, policy.ReadTransactions, nil); err != nil {
		return nil, err
	}

	txn, err := s.store.Transactions.FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrCarTransactionNotFound) {
			return nil, errTransactionMissing
		}
		return nil, err
	}
	return txn, nil
}

// ==================== Guarded deletes ====================

// DeleteCar removes a car and its listings. Cars with recorded sales stay.
func (s *marketplaceService) DeleteCar(actor policy.Actor, carID uint) error {
	s.logger.Info("🗑️ [Marketplace] Delete car", "car_id", carID, "user_id", actor.ID)

	if err := policy.Check(actor, policy.ManageCars, nil); err != nil {
		return err
	}

	return s.store.WithTx(func(tx *repository.Store) error {
		if _, err := tx.Cars.FindByIDForUpdate(carID); err != nil {
			return carLookupError(err)
		}

		sales, err := tx.Transactions.CountByCar(carID)
		if err != nil {
			return err
		}
		if sales > 0 {
			return ErrCarHasSales
		}

		if _, err := tx.Listings.DeleteByCar(carID); err != nil {
			return err
		}

		if err := tx.Cars.Delete(carID); err != nil {
			if _, ok := repository.IsConstraintViolation(err, repository.ConstraintForeignKey); ok {
				return ErrCarHasSales
			}
			return carLookupError(err)
		}
		return nil
	})
}

// DeleteMakeModelYear removes a catalog entry nothing references
func (s *marketplaceService) DeleteMakeModelYear(actor policy.Actor, id uint) error {
	s.logger.Info("🗑️ [Marketplace] Delete catalog entry", "make_model_year_id", id, "user_id", actor.ID)

	if err := policy.Check(actor, policy.ManageMakeModelYear, nil); err != nil {
		return err
	}

	return s.store.WithTx(func(tx *repository.Store) error {
		if _, err := tx.MakeModelYears.FindByIDForUpdate(id); err != nil {
			return catalogLookupError(err)
		}

		cars, err := tx.Cars.CountByMakeModelYear(id)
		if err != nil {
			return err
		}
		if cars > 0 {
			return ErrCatalogInUse
		}

		if err := tx.MakeModelYears.Delete(id); err != nil {
			if _, ok := repository.IsConstraintViolation(err, repository.ConstraintForeignKey); ok {
				return ErrCatalogInUse
			}
			return catalogLookupError(err)
		}
		return nil
	})
}

func listingLookupError(err error) error {
	if errors.Is(err, repository.ErrListingNotFound) {
		return errListingNotFound
	}
	return err
}
