package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/database/models"
)

// ListingRepository defines the interface for listing data operations
type ListingRepository interface {
	Create(listing *models.Listing) error
	FindByID(id uint) (*models.Listing, error)
	FindByIDForUpdate(id uint) (*models.Listing, error)
	FindAvailableByCar(carID uint) (*models.Listing, error)
	List() ([]models.Listing, error)
	ListByCar(carID uint) ([]models.Listing, error)
	MarkSold(id uint) (bool, error)
	Delete(id uint) error
	DeleteByCar(carID uint) (int64, error)
	DeleteByUser(userID uint) (int64, error)
}

type listingRepository struct {
	db *gorm.DB
}

// NewListingRepository creates a new listing repository instance
func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepository{db: db}
}

func (r *listingRepository) Create(listing *models.Listing) error {
	return classify(r.db.Omit(clause.Associations).Create(listing).Error)
}

// FindByID loads the listing with its car and owner
func (r *listingRepository) FindByID(id uint) (*models.Listing, error) {
	return r.find(r.db.Preload("Car.MakeModelYear").Preload("User"), id)
}

func (r *listingRepository) FindByIDForUpdate(id uint) (*models.Listing, error) {
	return r.find(r.db.Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *listingRepository) find(db *gorm.DB, id uint) (*models.Listing, error) {
	var listing models.Listing
	err := db.First(&listing, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	return &listing, nil
}

func (r *listingRepository) FindAvailableByCar(carID uint) (*models.Listing, error) {
	var listing models.Listing
	err := r.db.Where("car_id = ? AND listing_status = ?", carID, models.ListingAvailable).First(&listing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	return &listing, nil
}

func (r *listingRepository) List() ([]models.Listing, error) {
	var listings []models.Listing
	err := r.db.Preload("Car.MakeModelYear").Preload("User").Order("listing_id").Find(&listings).Error
	return listings, err
}

func (r *listingRepository) ListByCar(carID uint) ([]models.Listing, error) {
	var listings []models.Listing
	err := r.db.Where("car_id = ?", carID).Order("listing_id").Find(&listings).Error
	return listings, err
}

// MarkSold flips an available listing to sold. It reports false when the
// listing was no longer available, so at most one caller ever wins.
func (r *listingRepository) MarkSold(id uint) (bool, error) {
	result := r.db.Model(&models.Listing{}).
		Where("listing_id = ? AND listing_status = ?", id, models.ListingAvailable).
		Update("listing_status", models.ListingSold)
	if result.Error != nil {
		return false, classify(result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *listingRepository) Delete(id uint) error {
	result := r.db.Delete(&models.Listing{}, id)
	if result.Error != nil {
		return classify(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrListingNotFound
	}
	return nil
}

func (r *listingRepository) DeleteByCar(carID uint) (int64, error) {
	result := r.db.Where("car_id = ?", carID).Delete(&models.Listing{})
	return result.RowsAffected, classify(result.Error)
}

func (r *listingRepository) DeleteByUser(userID uint) (int64, error) {
	result := r.db.Where("user_id = ?", userID).Delete(&models.Listing{})
	return result.RowsAffected, classify(result.Error)
}

// Repository errors
var (
	ErrListingNotFound = errors.New("listing not found")
)
