package service

import (
	"errors"
	"log/slog"

	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/database/models"
	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/database/repository"
	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/policy"
)

// CatalogService manages make/model/year entries
type CatalogService interface {
	ListMakeModelYears() ([]models.MakeModelYear, error)
	GetMakeModelYear(id uint) (*MakeModelYearDetail, error)
	CreateMakeModelYear(actor policy.Actor, input MakeModelYearInput) (*models.MakeModelYear, error)
	UpdateMakeModelYear(actor policy.Actor, id uint, update MakeModelYearUpdate) (*models.MakeModelYear, error)
}

// MakeModelYearDetail is a catalog entry with the cars that reference it
type MakeModelYearDetail struct {
	models.MakeModelYear
	Cars []models.Car `json:"cars"`
}

type MakeModelYearInput struct {
	Make  string `json:"make" binding:"required,max=100"`
	Model string `json:"model" binding:"required,max=100"`
	Year  *int   `json:"year" binding:"required,gt=0"`
}

type MakeModelYearUpdate struct {
	Make  models.Optional[string] `json:"make"`
	Model models.Optional[string] `json:"model"`
	Year  models.Optional[int]    `json:"year"`
}

type catalogService struct {
	store  *repository.Store
	logger *slog.Logger
}

// NewCatalogService creates a new catalog service instance
func NewCatalogService(store *repository.Store, logger *slog.Logger) CatalogService {
	return &catalogService{
		store:  store,
		logger: logger,
	}
}

func (s *catalogService) ListMakeModelYears() ([]models.MakeModelYear, error) {
	return s.store.MakeModelYears.List()
}

func (s *catalogService) GetMakeModelYear(id uint) (*MakeModelYearDetail, error) {
	mmy, err := s.store.MakeModelYears.FindByID(id)
	if err != nil {
		return nil, catalogLookupError(err)
	}

	cars, err := s.store.Cars.ListByMakeModelYear(id)
	if err != nil {
		return nil, err
	}

	return &MakeModelYearDetail{MakeModelYear: *mmy, Cars: cars}, nil
}

func (s *catalogService) CreateMakeModelYear(actor policy.Actor, input MakeModelYearInput) (*models.MakeModelYear, error) {
	if err := policy.Check(actor, policy.ManageMakeModelYear, nil); err != nil {
		return nil, err
	}

	checks := &fieldChecker{}
	mk, _ := checks.requiredString("make", models.Some(input.Make), 100)
	model, _ := checks.requiredString("model", models.Some(input.Model), 100)
	if input.Year == nil || *input.Year <= 0 {
		checks.fail("year", "Year must be a positive integer.")
	}
	if err := checks.err(); err != nil {
		return nil, err
	}

	if err := s.ensureUnique(mk, model, *input.Year, 0); err != nil {
		return nil, err
	}

	mmy := &models.MakeModelYear{Make: mk, Model: model, Year: *input.Year}
	if err := s.store.MakeModelYears.Create(mmy); err != nil {
		s.logger.Error("❌ [CatalogService] Failed to create entry", "error", err)
		return nil, err
	}

	s.logger.Info("✅ [CatalogService] Catalog entry created", "make_model_year_id", mmy.ID)
	return mmy, nil
}

func (s *catalogService) UpdateMakeModelYear(actor policy.Actor, id uint, update MakeModelYearUpdate) (*models.MakeModelYear, error) {
	if err := policy.Check(actor, policy.ManageMakeModelYear, nil); err != nil {
		return nil, err
	}

	mmy, err := s.store.MakeModelYears.FindByID(id)
	if err != nil {
		return nil, catalogLookupError(err)
	}

	checks := &fieldChecker{}
	fields := map[string]any{}
	if v, ok := checks.requiredString("make", update.Make, 100); ok {
		mmy.Make = v
		fields["make"] = mmy.Make
	}
	if v, ok := checks.requiredString("model", update.Model, 100); ok {
		mmy.Model = v
		fields["model"] = mmy.Model
	}
	if update.Year.Present {
		if update.Year.Null || update.Year.Value <= 0 {
			checks.fail("year", "Year must be a positive integer.")
		} else {
			mmy.Year = update.Year.Value
			fields["year"] = mmy.Year
		}
	}
	if err := checks.err(); err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return mmy, nil
	}

	if err := s.ensureUnique(mmy.Make, mmy.Model, mmy.Year, mmy.ID); err != nil {
		return nil, err
	}

	if err := s.store.MakeModelYears.Update(id, fields); err != nil {
		return nil, catalogLookupError(err)
	}

	s.logger.Info("✅ [CatalogService] Catalog entry updated", "make_model_year_id", id)
	return mmy, nil
}

func (s *catalogService) ensureUnique(mk, model string, year int, selfID uint) error {
	existing, err := s.store.MakeModelYears.FindByCombination(mk, model, year)
	if err != nil && !errors.Is(err, repository.ErrMakeModelYearNotFound) {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return ErrDuplicateCatalog
	}
	return nil
}

func catalogLookupError(err error) error {
	if errors.Is(err, repository.ErrMakeModelYearNotFound) {
		return errCatalogNotFound
	}
	return err
}
