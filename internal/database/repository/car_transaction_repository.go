package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/database/models"
)

// CarTransactionRepository defines the interface for purchase records
type CarTransactionRepository interface {
	Create(txn *models.CarTransaction) error
	FindByID(id uint) (*models.CarTransaction, error)
	List() ([]models.CarTransaction, error)
	CountByCar(carID uint) (int64, error)
	CountByBuyer(buyerID uint) (int64, error)
}

type carTransactionRepository struct {
	db *gorm.DB
}

// NewCarTransactionRepository creates a new car transaction repository instance
func NewCarTransactionRepository(db *gorm.DB) CarTransactionRepository {
	return &carTransactionRepository{db: db}
}

func (r *carTransactionRepository) Create(txn *models.CarTransaction) error {
	return classify(r.db.Omit(clause.Associations).Create(txn).Error)
}

func (r *carTransactionRepository) FindByID(id uint) (*models.CarTransaction, error) {
	var txn models.CarTransaction
	err := r.db.Preload("Car.MakeModelYear").Preload("Buyer").First(&txn, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCarTransactionNotFound
		}
		return nil, err
	}
	return &txn, nil
}

func (r *carTransactionRepository) List() ([]models.CarTransaction, error) {
	var txns []models.CarTransaction
	err := r.db.Preload("Car.MakeModelYear").Preload("Buyer").Order("transaction_id").Find(&txns).Error
	return txns, err
}

func (r *carTransactionRepository) CountByCar(carID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.CarTransaction{}).Where("car_id = ?", carID).Count(&count).Error
	return count, err
}

func (r *carTransactionRepository) CountByBuyer(buyerID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.CarTransaction{}).Where("buyer_id = ?", buyerID).Count(&count).Error
	return count, err
}

// Repository errors
var (
	ErrCarTransactionNotFound = errors.New("car transaction not found")
)
