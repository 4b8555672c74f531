package testutil

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/database/models"
	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/database/service"
	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/policy"
)

// ==================== MOCK AUTH SERVICE ====================

// MockAuthService implements service.AuthService for testing
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(input service.RegisterInput) (*models.User, error) {
	args := m.Called(input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) CreateAdmin(input service.RegisterInput) (*models.User, error) {
	args := m.Called(input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) Login(email, password string) (*service.LoginResult, error) {
	args := m.Called(email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LoginResult), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockAuthService) Authenticate(ctx context.Context, token string) (policy.Actor, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(policy.Actor), args.Error(1)
}

// ==================== MOCK MARKETPLACE SERVICE ====================

// MockMarketplaceService implements service.MarketplaceService for testing
type MockMarketplaceService struct {
	mock.Mock
}

func (m *MockMarketplaceService) ListListings() ([]models.Listing, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Listing), args.Error(1)
}

func (m *MockMarketplaceService) GetListing(id uint) (*models.Listing, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Listing), args.Error(1)
}

func (m *MockMarketplaceService) CreateListing(actor policy.Actor, carID uint) (*models.Listing, error) {
	args := m.Called(actor, carID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Listing), args.Error(1)
}

func (m *MockMarketplaceService) UpdateListingStatus(actor policy.Actor, listingID uint, status models.ListingStatus) (*models.Listing, error) {
	args := m.Called(actor, listingID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Listing), args.Error(1)
}

func (m *MockMarketplaceService) DeleteListing(actor policy.Actor, listingID uint) error {
	args := m.Called(actor, listingID)
	return args.Error(0)
}

func (m *MockMarketplaceService) PurchaseCar(actor policy.Actor, carID uint, amount decimal.Decimal) (*models.CarTransaction, error) {
	args := m.Called(actor, carID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CarTransaction), args.Error(1)
}

func (m *MockMarketplaceService) ListTransactions(actor policy.Actor) ([]models.CarTransaction, error) {
	args := m.Called(actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CarTransaction), args.Error(1)
}

func (m *MockMarketplaceService) GetTransaction(actor policy.Actor, id uint) (*models.CarTransaction, error) {
	args := m.Called(actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CarTransaction), args.Error(1)
}

func (m *MockMarketplaceService) DeleteCar(actor policy.Actor, carID uint) error {
	args := m.Called(actor, carID)
	return args.Error(0)
}

func (m *MockMarketplaceService) DeleteMakeModelYear(actor policy.Actor, id uint) error {
	args := m.Called(actor, id)
	return args.Error(0)
}
