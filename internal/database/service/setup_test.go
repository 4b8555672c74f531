package service_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/config"
	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/database"
	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/database/models"
	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/database/repository"
	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/database/service"
	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/policy"
	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/testutil"
)

type services struct {
	store       *repository.Store
	credentials service.CredentialStore
	revoked     *database.MemoryRevocationStore
	auth        service.AuthService
	users       service.UserService
	catalog     service.CatalogService
	cars        service.CarService
	market      service.MarketplaceService
	admin       policy.Actor
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:       "test-secret",
		TokenExpiration: 3600,
		BcryptCost:      int64(bcrypt.MinCost),
	}
}

func setupServices(t *testing.T) *services {
	t.Helper()
	return newServices(t, testutil.SetupTestDB(t))
}

// newServices wires every service over db and creates an admin account
func newServices(t *testing.T, db *gorm.DB) *services {
	t.Helper()

	logger := testutil.DiscardLogger()
	store := repository.NewStore(db)
	credentials := service.NewCredentialStore(testConfig())
	revoked := database.NewMemoryRevocationStore()

	s := &services{
		store:       store,
		credentials: credentials,
		revoked:     revoked,
		auth:        service.NewAuthService(store, credentials, revoked, logger),
		users:       service.NewUserService(store, credentials, logger),
		catalog:     service.NewCatalogService(store, logger),
		cars:        service.NewCarService(store, logger),
		market:      service.NewMarketplaceService(store, logger),
	}

	admin, err := s.auth.CreateAdmin(service.RegisterInput{Name: "Admin", Email: "admin@example.com", Password: "admin-pass"})
	require.NoError(t, err)
	s.admin = policy.Actor{ID: admin.ID, IsAdmin: true}

	return s
}

func (s *services) register(t *testing.T, email string) policy.Actor {
	t.Helper()
	user, err := s.auth.Register(service.RegisterInput{Name: "User " + email, Email: email, Password: "secret"})
	require.NoError(t, err)
	return policy.Actor{ID: user.ID}
}

func (s *services) catalogEntry(t *testing.T, mk, model string, year int) *models.MakeModelYear {
	t.Helper()
	mmy, err := s.catalog.CreateMakeModelYear(s.admin, service.MakeModelYearInput{Make: mk, Model: model, Year: &year})
	require.NoError(t, err)
	return mmy
}

func (s *services) car(t *testing.T, mmyID uint, price string) *models.Car {
	t.Helper()
	mileage := 1000
	p := decimal.RequireFromString(price)
	car, err := s.cars.CreateCar(s.admin, service.CarInput{
		Mileage:         &mileage,
		Price:           &p,
		Condition:       string(models.ConditionUsed),
		MakeModelYearID: mmyID,
	})
	require.NoError(t, err)
	return car
}
