package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/database/models"
)

// MakeModelYearRepository defines the interface for catalog entry operations
type MakeModelYearRepository interface {
	Create(mmy *models.MakeModelYear) error
	FindByID(id uint) (*models.MakeModelYear, error)
	FindByIDForUpdate(id uint) (*models.MakeModelYear, error)
	FindByCombination(mk, model string, year int) (*models.MakeModelYear, error)
	List() ([]models.MakeModelYear, error)
	Update(id uint, fields map[string]any) error
	Delete(id uint) error
}

type makeModelYearRepository struct {
	db *gorm.DB
}

// NewMakeModelYearRepository creates a new make/model/year repository instance
func NewMakeModelYearRepository(db *gorm.DB) MakeModelYearRepository {
	return &makeModelYearRepository{db: db}
}

func (r *makeModelYearRepository) Create(mmy *models.MakeModelYear) error {
	return classify(r.db.Create(mmy).Error)
}

func (r *makeModelYearRepository) FindByID(id uint) (*models.MakeModelYear, error) {
	return r.find(r.db, id)
}

// FindByIDForUpdate locks the row for the rest of the transaction
func (r *makeModelYearRepository) FindByIDForUpdate(id uint) (*models.MakeModelYear, error) {
	return r.find(r.db.Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *makeModelYearRepository) find(db *gorm.DB, id uint) (*models.MakeModelYear, error) {
	var mmy models.MakeModelYear
	err := db.First(&mmy, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMakeModelYearNotFound
		}
		return nil, err
	}
	return &mmy, nil
}

func (r *makeModelYearRepository) FindByCombination(mk, model string, year int) (*models.MakeModelYear, error) {
	var mmy models.MakeModelYear
	err := r.db.Where("make = ? AND model = ? AND year = ?", mk, model, year).First(&mmy).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMakeModelYearNotFound
		}
		return nil, err
	}
	return &mmy, nil
}

func (r *makeModelYearRepository) List() ([]models.MakeModelYear, error) {
	var entries []models.MakeModelYear
	err := r.db.Order("make_model_year_id").Find(&entries).Error
	return entries, err
}

func (r *makeModelYearRepository) Update(id uint, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	result := r.db.Model(&models.MakeModelYear{}).Where("make_model_year_id = ?", id).Updates(fields)
	if result.Error != nil {
		return classify(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrMakeModelYearNotFound
	}
	return nil
}

func (r *makeModelYearRepository) Delete(id uint) error {
	result := r.db.Delete(&models.MakeModelYear{}, id)
	if result.Error != nil {
		return classify(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrMakeModelYearNotFound
	}
	return nil
}

// Repository errors
var (
	ErrMakeModelYearNotFound = errors.New("make model year not found")
)
