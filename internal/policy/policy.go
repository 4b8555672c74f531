// Package policy decides who may perform which marketplace action.
package policy

import (
	"errors"
)

// Actor is the caller of an operation. The zero value is anonymous.
type Actor struct {
	ID      uint
	IsAdmin bool
}

var Anonymous = Actor{}

func (a Actor) Authenticated() bool {
	return a.ID != 0
}

type Action string

const (
	// Public reads
	ReadCatalog Action = "read_catalog"

	// Any authenticated user
	ReadTransactions Action = "read_transactions"
	CreateListing    Action = "create_listing"
	PurchaseCar      Action = "purchase_car"
	Logout           Action = "logout"

	// Owner or admin
	ReadUser      Action = "read_user"
	UpdateUser    Action = "update_user"
	UpdateListing Action = "update_listing"
	DeleteListing Action = "delete_listing"

	// Admin only
	DeleteUser          Action = "delete_user"
	ManageCars          Action = "manage_cars"
	ManageMakeModelYear Action = "manage_make_model_year"
)

type scope int

const (
	scopePublic scope = iota
	scopeAuthenticated
	scopeOwner
	scopeAdmin
)

var scopes = map[Action]scope{
	ReadCatalog:         scopePublic,
	ReadTransactions:    scopeAuthenticated,
	CreateListing:       scopeAuthenticated,
	PurchaseCar:         scopeAuthenticated,
	Logout:              scopeAuthenticated,
	ReadUser:            scopeOwner,
	UpdateUser:          scopeOwner,
	UpdateListing:       scopeOwner,
	DeleteListing:       scopeOwner,
	DeleteUser:          scopeAdmin,
	ManageCars:          scopeAdmin,
	ManageMakeModelYear: scopeAdmin,
}

// Target is the resource an owner-scoped action applies to
type Target struct {
	OwnerID uint
}

func Owned(ownerID uint) *Target {
	return &Target{OwnerID: ownerID}
}

type Reason string

const (
	ReasonUnauthenticated Reason = "unauthenticated"
	ReasonForbidden       Reason = "forbidden"
	ReasonNotFound        Reason = "not_found"
)

type Decision struct {
	Allowed bool
	Reason  Reason
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason Reason) Decision {
	return Decision{Reason: reason}
}

// Err returns nil when allowed, otherwise the sentinel for the reason
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	switch d.Reason {
	case ReasonUnauthenticated:
		return ErrUnauthenticated
	case ReasonNotFound:
		return ErrNotFound
	default:
		return ErrForbidden
	}
}

// Can evaluates action for actor. Authentication is checked first, then the
// target's existence for owner-scoped actions, then ownership or admin rights.
// Unknown actions are denied.
func Can(actor Actor, action Action, target *Target) Decision {
	sc, ok := scopes[action]
	if !ok {
		return deny(ReasonForbidden)
	}

	if sc == scopePublic {
		return allow()
	}
	if !actor.Authenticated() {
		return deny(ReasonUnauthenticated)
	}

	switch sc {
	case scopeAuthenticated:
		return allow()
	case scopeOwner:
		if target == nil {
			return deny(ReasonNotFound)
		}
		if actor.IsAdmin || target.OwnerID == actor.ID {
			return allow()
		}
		return deny(ReasonForbidden)
	case scopeAdmin:
		if actor.IsAdmin {
			return allow()
		}
		return deny(ReasonForbidden)
	}

	return deny(ReasonForbidden)
}

// Check is Can(...).Err()
func Check(actor Actor, action Action, target *Target) error {
	return Can(actor, action, target).Err()
}

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("you do not have permission to perform this action")
	ErrNotFound        = errors.New("resource not found")
)
