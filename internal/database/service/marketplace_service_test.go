package service_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/database/models"
	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/database/service"
	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/policy"
)

// ==================== LISTING TESTS ====================

func TestMarketplace_CreateListing(t *testing.T) {
	s := setupServices(t)
	seller := s.register(t, "seller@example.com")
	mmy := s.catalogEntry(t, "Toyota", "Corolla", 2020)
	car := s.car(t, mmy.ID, "20000")

	listing, err := s.market.CreateListing(seller, car.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ListingAvailable, listing.Status)
	assert.Equal(t, seller.ID, listing.UserID)
	require.NotNil(t, listing.Car)
	assert.Equal(t, car.ID, listing.Car.ID)

	_, err = s.market.CreateListing(seller, car.ID)
	assert.ErrorIs(t, err, service.ErrCarAlreadyListed)

	var nf *service.NotFoundError
	_, err = s.market.CreateListing(seller, 999)
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Car", nf.Resource)

	_, err = s.market.CreateListing(policy.Anonymous, car.ID)
	assert.ErrorIs(t, err, policy.ErrUnauthenticated)
}

func TestMarketplace_ConcurrentListingsYieldOneWinner(t *testing.T) {
	s := setupServices(t)
	mmy := s.catalogEntry(t, "Toyota", "Corolla", 2020)
	car := s.car(t, mmy.ID, "20000")

	const attempts = 8
	sellers := make([]policy.Actor, attempts)
	for i := range sellers {
		sellers[i] = s.register(t, fmt.Sprintf("seller%d@example.com", i))
	}

	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.market.CreateListing(sellers[i], car.ID)
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		assert.ErrorIs(t, err, service.ErrCarAlreadyListed)
	}
	assert.Equal(t, 1, successes)

	listings, err := s.store.Listings.ListByCar(car.ID)
	require.NoError(t, err)
	assert.Len(t, listings, 1)
}

func TestMarketplace_UpdateListingStatus(t *testing.T) {
	s := setupServices(t)
	seller := s.register(t, "seller@example.com")
	stranger := s.register(t, "stranger@example.com")
	mmy := s.catalogEntry(t, "Toyota", "Corolla", 2020)
	car := s.car(t, mmy.ID, "20000")

	listing, err := s.market.CreateListing(seller, car.ID)
	require.NoError(t, err)

	_, err = s.market.UpdateListingStatus(stranger, listing.ID, models.ListingSold)
	assert.ErrorIs(t, err, policy.ErrForbidden)

	_, err = s.market.UpdateListingStatus(seller, listing.ID, models.ListingStatus("pending"))
	var verr *service.ValidationError
	assert.ErrorAs(t, err, &verr)

	same, err := s.market.UpdateListingStatus(seller, listing.ID, models.ListingAvailable)
	require.NoError(t, err)
	assert.Equal(t, models.ListingAvailable, same.Status)

	sold, err := s.market.UpdateListingStatus(seller, listing.ID, models.ListingSold)
	require.NoError(t, err)
	assert.Equal(t, models.ListingSold, sold.Status)

	_, err = s.market.UpdateListingStatus(s.admin, listing.ID, models.ListingAvailable)
	assert.ErrorIs(t, err, service.ErrListingSold)

	// Marking sold by hand records no transaction
	count, err := s.store.Transactions.CountByCar(car.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	var nf *service.NotFoundError
	_, err = s.market.UpdateListingStatus(seller, 999, models.ListingSold)
	assert.ErrorAs(t, err, &nf)
}

func TestMarketplace_DeleteListing(t *testing.T) {
	s := setupServices(t)
	seller := s.register(t, "seller@example.com")
	stranger := s.register(t, "stranger@example.com")
	mmy := s.catalogEntry(t, "Toyota", "Corolla", 2020)
	car := s.car(t, mmy.ID, "20000")

	listing, err := s.market.CreateListing(seller, car.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, s.market.DeleteListing(stranger, listing.ID), policy.ErrForbidden)
	require.NoError(t, s.market.DeleteListing(seller, listing.ID))

	var nf *service.NotFoundError
	assert.ErrorAs(t, s.market.DeleteListing(seller, listing.ID), &nf)

	// Car can be listed again once the old listing is gone
	_, err = s.market.CreateListing(stranger, car.ID)
	assert.NoError(t, err)
}

// ==================== PURCHASE TESTS ====================

func TestMarketplace_PurchaseCar(t *testing.T) {
	s := setupServices(t)
	seller := s.register(t, "seller@example.com")
	buyer := s.register(t, "buyer@example.com")
	mmy := s.catalogEntry(t, "Toyota", "Corolla", 2020)
	car := s.car(t, mmy.ID, "20000")
	unlisted := s.car(t, mmy.ID, "15000")

	_, err := s.market.CreateListing(seller, car.ID)
	require.NoError(t, err)

	tests := []struct {
		name    string
		carID   uint
		amount  string
		wantErr error
	}{
		{"unknown car", 999, "20000", service.ErrInvalidCarRef},
		{"not listed", unlisted.ID, "15000", service.ErrCarUnavailable},
		{"wrong amount", car.ID, "19999.99", service.ErrPriceMismatch},
		{"success with equal decimal", car.ID, "20000.00", nil},
		{"already sold", car.ID, "20000", service.ErrCarUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn, err := s.market.PurchaseCar(buyer, tt.carID, decimal.RequireFromString(tt.amount))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, buyer.ID, txn.BuyerID)
			assert.True(t, txn.Amount.Equal(car.Price))
		})
	}

	_, err = s.market.PurchaseCar(policy.Anonymous, car.ID, car.Price)
	assert.ErrorIs(t, err, policy.ErrUnauthenticated)
}

func TestMarketplace_ConcurrentPurchasesYieldOneTransaction(t *testing.T) {
	s := setupServices(t)
	seller := s.register(t, "seller@example.com")
	mmy := s.catalogEntry(t, "Toyota", "Corolla", 2020)
	car := s.car(t, mmy.ID, "20000")

	_, err := s.market.CreateListing(seller, car.ID)
	require.NoError(t, err)

	const buyers = 8
	actors := make([]policy.Actor, buyers)
	for i := range actors {
		actors[i] = s.register(t, fmt.Sprintf("buyer%d@example.com", i))
	}

	var wg sync.WaitGroup
	errs := make([]error, buyers)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.market.PurchaseCar(actors[i], car.ID, car.Price)
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		assert.ErrorIs(t, err, service.ErrCarUnavailable)
	}
	assert.Equal(t, 1, successes)

	count, err := s.store.Transactions.CountByCar(car.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestMarketplace_SelfPurchaseAllowed(t *testing.T) {
	s := setupServices(t)
	seller := s.register(t, "seller@example.com")
	mmy := s.catalogEntry(t, "Toyota", "Corolla", 2020)
	car := s.car(t, mmy.ID, "20000")

	_, err := s.market.CreateListing(seller, car.ID)
	require.NoError(t, err)

	_, err = s.market.PurchaseCar(seller, car.ID, car.Price)
	assert.NoError(t, err)
}

// ==================== GUARDED DELETE TESTS ====================

func TestMarketplace_DeleteCar(t *testing.T) {
	s := setupServices(t)
	seller := s.register(t, "seller@example.com")
	buyer := s.register(t, "buyer@example.com")
	mmy := s.catalogEntry(t, "Toyota", "Corolla", 2020)
	listedOnly := s.car(t, mmy.ID, "10000")
	soldCar := s.car(t, mmy.ID, "20000")

	_, err := s.market.CreateListing(seller, listedOnly.ID)
	require.NoError(t, err)
	_, err = s.market.CreateListing(seller, soldCar.ID)
	require.NoError(t, err)
	_, err = s.market.PurchaseCar(buyer, soldCar.ID, soldCar.Price)
	require.NoError(t, err)

	assert.ErrorIs(t, s.market.DeleteCar(seller, listedOnly.ID), policy.ErrForbidden)
	assert.ErrorIs(t, s.market.DeleteCar(s.admin, soldCar.ID), service.ErrCarHasSales)

	require.NoError(t, s.market.DeleteCar(s.admin, listedOnly.ID))
	listings, err := s.store.Listings.ListByCar(listedOnly.ID)
	require.NoError(t, err)
	assert.Empty(t, listings)

	var nf *service.NotFoundError
	assert.ErrorAs(t, s.market.DeleteCar(s.admin, listedOnly.ID), &nf)
}

func TestMarketplace_DeleteMakeModelYear(t *testing.T) {
	s := setupServices(t)
	used := s.catalogEntry(t, "Toyota", "Corolla", 2020)
	unused := s.catalogEntry(t, "Toyota", "Camry", 2020)
	s.car(t, used.ID, "20000")

	assert.ErrorIs(t, s.market.DeleteMakeModelYear(s.admin, used.ID), service.ErrCatalogInUse)
	require.NoError(t, s.market.DeleteMakeModelYear(s.admin, unused.ID))

	var nf *service.NotFoundError
	assert.ErrorAs(t, s.market.DeleteMakeModelYear(s.admin, unused.ID), &nf)
}

// ==================== END TO END ====================

func TestMarketplace_ListBuyAndRelist(t *testing.T) {
	s := setupServices(t)
	seller := s.register(t, "seller@example.com")
	buyer := s.register(t, "buyer@example.com")
	mmy := s.catalogEntry(t, "Toyota", "Corolla", 2020)
	car := s.car(t, mmy.ID, "20000")

	listing, err := s.market.CreateListing(seller, car.ID)
	require.NoError(t, err)

	_, err = s.market.PurchaseCar(buyer, car.ID, decimal.NewFromInt(19000))
	assert.ErrorIs(t, err, service.ErrPriceMismatch)

	txn, err := s.market.PurchaseCar(buyer, car.ID, decimal.NewFromInt(20000))
	require.NoError(t, err)
	require.NotNil(t, txn.Car)
	assert.Equal(t, car.ID, txn.Car.ID)

	got, err := s.market.GetListing(listing.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ListingSold, got.Status)

	// The new owner may list the car again; the sold listing stays as history
	relisted, err := s.market.CreateListing(buyer, car.ID)
	require.NoError(t, err)
	assert.NotEqual(t, listing.ID, relisted.ID)

	txns, err := s.market.ListTransactions(buyer)
	require.NoError(t, err)
	assert.Len(t, txns, 1)

	_, err = s.market.ListTransactions(policy.Anonymous)
	assert.ErrorIs(t, err, policy.ErrUnauthenticated)

	fetched, err := s.market.GetTransaction(seller, txn.ID)
	require.NoError(t, err)
	assert.Equal(t, txn.ID, fetched.ID)
}

func TestMarketplace_PurchaseRejectsOutOfRangeAmount(t *testing.T) {
	s := setupServices(t)
	seller := s.register(t, "seller@example.com")
	buyer := s.register(t, "buyer@example.com")
	mmy := s.catalogEntry(t, "Toyota", "Corolla", 2020)
	car := s.car(t, mmy.ID, "20000")

	_, err := s.market.CreateListing(seller, car.ID)
	require.NoError(t, err)

	for _, amount := range []string{"1e20000000", "-1e-20000000", "20000.001", "-20000", "10000000000"} {
		t.Run(amount, func(t *testing.T) {
			_, err := s.market.PurchaseCar(buyer, car.ID, decimal.RequireFromString(amount))
			var verr *service.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, "amount")
		})
	}

	// The listing is still for sale
	txn, err := s.market.PurchaseCar(buyer, car.ID, decimal.RequireFromString("20000.00"))
	require.NoError(t, err)
	assert.True(t, txn.Amount.Equal(car.Price))
}
