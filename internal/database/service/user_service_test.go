package service_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/database/models"
	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/database/service"
	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/policy"
)

func userUpdate(t *testing.T, body string) service.UserUpdate {
	t.Helper()
	var u service.UserUpdate
	require.NoError(t, json.Unmarshal([]byte(body), &u))
	return u
}

func TestUserService_GetUser(t *testing.T) {
	s := setupServices(t)
	alice := s.register(t, "alice@example.com")
	bob := s.register(t, "bob@example.com")

	user, err := s.users.GetUser(alice, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)

	_, err = s.users.GetUser(bob, alice.ID)
	assert.ErrorIs(t, err, policy.ErrForbidden)

	_, err = s.users.GetUser(s.admin, alice.ID)
	assert.NoError(t, err)

	var nf *service.NotFoundError
	_, err = s.users.GetUser(s.admin, 999)
	assert.ErrorAs(t, err, &nf)

	_, err = s.users.GetUser(policy.Anonymous, alice.ID)
	assert.ErrorIs(t, err, policy.ErrUnauthenticated)
}

func TestUserService_PartialUpdateLeavesOtherFields(t *testing.T) {
	s := setupServices(t)
	phone := "555-0100"
	created, err := s.auth.Register(service.RegisterInput{
		Name: "Alice", Email: "alice@example.com", Password: "secret", PhoneNumber: &phone,
	})
	require.NoError(t, err)
	alice := policy.Actor{ID: created.ID}

	updated, err := s.users.UpdateUser(alice, alice.ID, userUpdate(t, `{"name":"Alicia"}`))
	require.NoError(t, err)
	assert.Equal(t, "Alicia", updated.Name)
	assert.Equal(t, "alice@example.com", updated.Email)
	require.NotNil(t, updated.PhoneNumber)
	assert.Equal(t, phone, *updated.PhoneNumber)

	updated, err = s.users.UpdateUser(alice, alice.ID, userUpdate(t, `{"phone_number":null}`))
	require.NoError(t, err)
	assert.Nil(t, updated.PhoneNumber)
	assert.Equal(t, "Alicia", updated.Name)
}

func TestUserService_UpdatePasswordIsRehashed(t *testing.T) {
	s := setupServices(t)
	alice := s.register(t, "alice@example.com")

	_, err := s.users.UpdateUser(alice, alice.ID, userUpdate(t, `{"password":"new-secret"}`))
	require.NoError(t, err)

	_, err = s.auth.Login("alice@example.com", "secret")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = s.auth.Login("alice@example.com", "new-secret")
	assert.NoError(t, err)
}

func TestUserService_UpdateRejections(t *testing.T) {
	s := setupServices(t)
	alice := s.register(t, "alice@example.com")
	bob := s.register(t, "bob@example.com")

	tests := []struct {
		name   string
		actor  policy.Actor
		target uint
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name: "other user", actor: bob, target: alice.ID, body: `{"name":"x"}`,
			check: func(t *testing.T, err error) { assert.ErrorIs(t, err, policy.ErrForbidden) },
		},
		{
			name: "email taken", actor: alice, target: alice.ID, body: `{"email":"bob@example.com"}`,
			check: func(t *testing.T, err error) { assert.ErrorIs(t, err, service.ErrEmailAlreadyExists) },
		},
		{
			name: "bad email", actor: alice, target: alice.ID, body: `{"email":"nope"}`,
			check: func(t *testing.T, err error) {
				var verr *service.ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Contains(t, verr.Fields, "email")
			},
		},
		{
			name: "null name", actor: alice, target: alice.ID, body: `{"name":null}`,
			check: func(t *testing.T, err error) {
				var verr *service.ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Contains(t, verr.Fields, "name")
			},
		},
		{
			name: "empty password", actor: alice, target: alice.ID, body: `{"password":""}`,
			check: func(t *testing.T, err error) {
				var verr *service.ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Contains(t, verr.Fields, "password")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.users.UpdateUser(tt.actor, tt.target, userUpdate(t, tt.body))
			tt.check(t, err)
		})
	}
}

func TestUserService_UpdateTrimsBeforeLengthCheck(t *testing.T) {
	s := setupServices(t)
	alice := s.register(t, "alice@example.com")

	padded := "  " + strings.Repeat("a", 100) + "  "
	updated, err := s.users.UpdateUser(alice, alice.ID, userUpdate(t, `{"name":"`+padded+`"}`))
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("a", 100), updated.Name)

	updated, err = s.users.UpdateUser(alice, alice.ID, userUpdate(t, `{"name":"  Alice  "}`))
	require.NoError(t, err)
	assert.Equal(t, "Alice", updated.Name)

	_, err = s.users.UpdateUser(alice, alice.ID, userUpdate(t, `{"name":"`+strings.Repeat("a", 101)+`"}`))
	var verr *service.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "name")

	_, err = s.auth.Register(service.RegisterInput{Name: strings.Repeat("b", 101), Email: "bob@example.com", Password: "x"})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "name")
}

func TestUserService_DeleteUser(t *testing.T) {
	s := setupServices(t)
	seller := s.register(t, "seller@example.com")
	mmy := s.catalogEntry(t, "Toyota", "Corolla", 2020)
	car := s.car(t, mmy.ID, "20000")

	_, err := s.market.CreateListing(seller, car.ID)
	require.NoError(t, err)

	// Non-admins cannot delete accounts, not even their own
	assert.ErrorIs(t, s.users.DeleteUser(seller, seller.ID), policy.ErrForbidden)

	require.NoError(t, s.users.DeleteUser(s.admin, seller.ID))

	listings, err := s.market.ListListings()
	require.NoError(t, err)
	assert.Empty(t, listings)

	var nf *service.NotFoundError
	assert.ErrorAs(t, s.users.DeleteUser(s.admin, seller.ID), &nf)
}

func TestUserService_DeleteBuyerWithPurchasesIsRejected(t *testing.T) {
	s := setupServices(t)
	buyer := s.register(t, "buyer@example.com")
	mmy := s.catalogEntry(t, "Toyota", "Corolla", 2020)
	car := s.car(t, mmy.ID, "20000")

	require.NoError(t, s.store.Transactions.Create(&models.CarTransaction{
		TransactionDate: time.Now(),
		Amount:          decimal.NewFromInt(20000),
		CarID:           car.ID,
		BuyerID:         buyer.ID,
	}))

	err := s.users.DeleteUser(s.admin, buyer.ID)
	assert.ErrorIs(t, err, service.ErrUserHasPurchases)
}
