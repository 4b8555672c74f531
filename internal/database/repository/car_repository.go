package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/database/models"
)

// CarRepository defines the interface for car data operations
type CarRepository interface {
	Create(car *models.Car) error
	FindByID(id uint) (*models.Car, error)
	FindByIDForUpdate(id uint) (*models.Car, error)
	List() ([]models.Car, error)
	ListByMakeModelYear(mmyID uint) ([]models.Car, error)
	CountByMakeModelYear(mmyID uint) (int64, error)
	Update(id uint, fields map[string]any) error
	Delete(id uint) error
}

type carRepository struct {
	db *gorm.DB
}

// NewCarRepository creates a new car repository instance
func NewCarRepository(db *gorm.DB) CarRepository {
	return &carRepository{db: db}
}

func (r *carRepository) Create(car *models.Car) error {
	return classify(r.db.Omit(clause.Associations).Create(car).Error)
}

// FindByID loads the car together with its catalog entry
func (r *carRepository) FindByID(id uint) (*models.Car, error) {
	return r.find(r.db.Preload("MakeModelYear"), id)
}

// FindByIDForUpdate locks the car row for the rest of the transaction. Every
// operation that changes a car's listings or sales takes this lock first.
func (r *carRepository) FindByIDForUpdate(id uint) (*models.Car, error) {
	return r.find(r.db.Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *carRepository) find(db *gorm.DB, id uint) (*models.Car, error) {
	var car models.Car
	err := db.First(&car, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCarNotFound
		}
		return nil, err
	}
	return &car, nil
}

func (r *carRepository) List() ([]models.Car, error) {
	var cars []models.Car
	err := r.db.Preload("MakeModelYear").Order("car_id").Find(&cars).Error
	return cars, err
}

func (r *carRepository) ListByMakeModelYear(mmyID uint) ([]models.Car, error) {
	var cars []models.Car
	err := r.db.Where("make_model_year_id = ?", mmyID).Order("car_id").Find(&cars).Error
	return cars, err
}

func (r *carRepository) CountByMakeModelYear(mmyID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Car{}).Where("make_model_year_id = ?", mmyID).Count(&count).Error
	return count, err
}

func (r *carRepository) Update(id uint, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	result := r.db.Model(&models.Car{}).Where("car_id = ?", id).Updates(fields)
	if result.Error != nil {
		return classify(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCarNotFound
	}
	return nil
}

func (r *carRepository) Delete(id uint) error {
	result := r.db.Delete(&models.Car{}, id)
	if result.Error != nil {
		return classify(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCarNotFound
	}
	return nil
}

// Repository errors
var (
	ErrCarNotFound = errors.New("car not found")
)
