package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCan(t *testing.T) {
	owner := Actor{ID: 1}
	other := Actor{ID: 2}
	admin := Actor{ID: 3, IsAdmin: true}

	tests := []struct {
		name   string
		actor  Actor
		action Action
		target *Target
		want   Decision
	}{
		{"anonymous reads catalog", Anonymous, ReadCatalog, nil, Decision{Allowed: true}},
		{"anonymous cannot purchase", Anonymous, PurchaseCar, nil, Decision{Reason: ReasonUnauthenticated}},
		{"anonymous cannot read transactions", Anonymous, ReadTransactions, nil, Decision{Reason: ReasonUnauthenticated}},
		{"user creates listing", other, CreateListing, nil, Decision{Allowed: true}},
		{"owner updates listing", owner, UpdateListing, Owned(1), Decision{Allowed: true}},
		{"other cannot update listing", other, UpdateListing, Owned(1), Decision{Reason: ReasonForbidden}},
		{"admin updates any listing", admin, UpdateListing, Owned(1), Decision{Allowed: true}},
		{"owner action without target", owner, DeleteListing, nil, Decision{Reason: ReasonNotFound}},
		{"anonymous before missing target", Anonymous, DeleteListing, nil, Decision{Reason: ReasonUnauthenticated}},
		{"user reads self", owner, ReadUser, Owned(1), Decision{Allowed: true}},
		{"user cannot read other", other, ReadUser, Owned(1), Decision{Reason: ReasonForbidden}},
		{"user cannot delete users", owner, DeleteUser, Owned(1), Decision{Reason: ReasonForbidden}},
		{"admin deletes users", admin, DeleteUser, Owned(1), Decision{Allowed: true}},
		{"user cannot manage cars", owner, ManageCars, nil, Decision{Reason: ReasonForbidden}},
		{"admin manages catalog", admin, ManageMakeModelYear, nil, Decision{Allowed: true}},
		{"unknown action", admin, Action("launch_rocket"), nil, Decision{Reason: ReasonForbidden}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Can(tt.actor, tt.action, tt.target))
		})
	}
}

func TestDecision_Err(t *testing.T) {
	assert.NoError(t, Decision{Allowed: true}.Err())
	assert.ErrorIs(t, Decision{Reason: ReasonUnauthenticated}.Err(), ErrUnauthenticated)
	assert.ErrorIs(t, Decision{Reason: ReasonForbidden}.Err(), ErrForbidden)
	assert.ErrorIs(t, Decision{Reason: ReasonNotFound}.Err(), ErrNotFound)
}
