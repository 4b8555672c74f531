package service

import (
	"errors"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/database/models"
	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/database/repository"
	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/policy"
)

// CarService manages the car inventory
type CarService interface {
	ListCars() ([]models.Car, error)
	GetCar(id uint) (*CarDetail, error)
	CreateCar(actor policy.Actor, input CarInput) (*models.Car, error)
	UpdateCar(actor policy.Actor, id uint, update CarUpdate) (*models.Car, error)
}

// CarDetail is a car with its listing history
type CarDetail struct {
	models.Car
	Listings []models.Listing `json:"listings"`
}

type CarInput struct {
	Mileage         *int             `json:"mileage" binding:"required,gte=0"`
	Price           *decimal.Decimal `json:"price" binding:"required"`
	Condition       string           `json:"condition" binding:"required,oneof=new used certified"`
	Description     *string          `json:"description" binding:"omitempty,max=1000"`
	ImageURL        *string          `json:"image_url" binding:"omitempty,max=100"`
	MakeModelYearID uint             `json:"make_model_year_id" binding:"required"`
}

type CarUpdate struct {
	Mileage         models.Optional[int]             `json:"mileage"`
	Price           models.Optional[decimal.Decimal] `json:"price"`
	Condition       models.Optional[string]          `json:"condition"`
	Description     models.Optional[string]          `json:"description"`
	ImageURL        models.Optional[string]          `json:"image_url"`
	MakeModelYearID models.Optional[uint]            `json:"make_model_year_id"`
}

type carService struct {
	store  *repository.Store
	logger *slog.Logger
}

// NewCarService creates a new car service instance
func NewCarService(store *repository.Store, logger *slog.Logger) CarService {
	return &carService{
		store:  store,
		logger: logger,
	}
}

func (s *carService) ListCars() ([]models.Car, error) {
	return s.store.Cars.List()
}

func (s *carService) GetCar(id uint) (*CarDetail, error) {
	car, err := s.store.Cars.FindByID(id)
	if err != nil {
		return nil, carLookupError(err)
	}

	listings, err := s.store.Listings.ListByCar(id)
	if err != nil {
		return nil, err
	}

	return &CarDetail{Car: *car, Listings: listings}, nil
}

func (s *carService) CreateCar(actor policy.Actor, input CarInput) (*models.Car, error) {
	if err := policy.Check(actor, policy.ManageCars, nil); err != nil {
		return nil, err
	}

	checks := &fieldChecker{}
	if input.Mileage == nil {
		checks.fail("mileage", "Missing data for required field.")
	} else {
		checks.mileage(*input.Mileage)
	}
	if input.Price == nil {
		checks.fail("price", "Missing data for required field.")
	} else {
		checks.money("price", "Price", *input.Price)
	}
	if !models.CarCondition(input.Condition).Valid() {
		checks.fail("condition", "Must be one of: new, used, certified.")
	}
	description, _ := checks.nullableString("description", optionalFromPtr(input.Description), 1000)
	imageURL, _ := checks.nullableString("image_url", optionalFromPtr(input.ImageURL), 100)
	if input.MakeModelYearID == 0 {
		checks.fail("make_model_year_id", "Missing data for required field.")
	}
	if err := checks.err(); err != nil {
		return nil, err
	}

	if err := s.ensureCatalogEntry(input.MakeModelYearID); err != nil {
		return nil, err
	}

	car := &models.Car{
		Mileage:         *input.Mileage,
		Price:           *input.Price,
		Condition:       models.CarCondition(input.Condition),
		Description:     description,
		ImageURL:        imageURL,
		MakeModelYearID: input.MakeModelYearID,
	}
	if err := s.store.Cars.Create(car); err != nil {
		if _, ok := repository.IsConstraintViolation(err, repository.ConstraintForeignKey); ok {
			return nil, ErrInvalidCatalogRef
		}
		s.logger.Error("❌ [CarService] Failed to create car", "error", err)
		return nil, err
	}

	s.logger.Info("✅ [CarService] Car created", "car_id", car.ID, "make_model_year_id", car.MakeModelYearID)
	return s.reload(car.ID)
}

func (s *carService) UpdateCar(actor policy.Actor, id uint, update CarUpdate) (*models.Car, error) {
	if err := policy.Check(actor, policy.ManageCars, nil); err != nil {
		return nil, err
	}

	if _, err := s.store.Cars.FindByID(id); err != nil {
		return nil, carLookupError(err)
	}

	checks := &fieldChecker{}
	fields := map[string]any{}

	if update.Mileage.Present {
		if update.Mileage.Null {
			checks.fail("mileage", "Field may not be null.")
		} else if checks.mileage(update.Mileage.Value) {
			fields["mileage"] = update.Mileage.Value
		}
	}
	if update.Price.Present {
		if update.Price.Null {
			checks.fail("price", "Field may not be null.")
		} else if checks.money("price", "Price", update.Price.Value) {
			fields["price"] = update.Price.Value
		}
	}
	if update.Condition.Present {
		if update.Condition.Null || !models.CarCondition(update.Condition.Value).Valid() {
			checks.fail("condition", "Must be one of: new, used, certified.")
		} else {
			fields["condition"] = update.Condition.Value
		}
	}
	if v, ok := checks.nullableString("description", update.Description, 1000); ok {
		fields["description"] = v
	}
	if v, ok := checks.nullableString("image_url", update.ImageURL, 100); ok {
		fields["image_url"] = v
	}
	if update.MakeModelYearID.Present {
		if update.MakeModelYearID.Null || update.MakeModelYearID.Value == 0 {
			checks.fail("make_model_year_id", "Field may not be null.")
		} else {
			fields["make_model_year_id"] = update.MakeModelYearID.Value
		}
	}
	if err := checks.err(); err != nil {
		return nil, err
	}

	if mmyID, ok := fields["make_model_year_id"].(uint); ok {
		if err := s.ensureCatalogEntry(mmyID); err != nil {
			return nil, err
		}
	}

	if err := s.store.Cars.Update(id, fields); err != nil {
		if _, ok := repository.IsConstraintViolation(err, repository.ConstraintForeignKey); ok {
			return nil, ErrInvalidCatalogRef
		}
		return nil, carLookupError(err)
	}

	s.logger.Info("✅ [CarService] Car updated", "car_id", id, "fields", len(fields))
	return s.reload(id)
}

func (s *carService) ensureCatalogEntry(id uint) error {
	if _, err := s.store.MakeModelYears.FindByID(id); err != nil {
		if errors.Is(err, repository.ErrMakeModelYearNotFound) {
			return ErrInvalidCatalogRef
		}
		return err
	}
	return nil
}

func (s *carService) reload(id uint) (*models.Car, error) {
	car, err := s.store.Cars.FindByID(id)
	if err != nil {
		return nil, carLookupError(err)
	}
	return car, nil
}

func optionalFromPtr[T any](p *T) models.Optional[T] {
	if p == nil {
		return models.Optional[T]{}
	}
	return models.Some(*p)
}

func carLookupError(err error) error {
	if errors.Is(err, repository.ErrCarNotFound) {
		return errCarNotFound
	}
	return err
}
