package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/database/repository"
)

// ValidationError collects per-field input problems
type ValidationError struct {
	Fields map[string][]string
}

func NewValidationError(field, message string) *ValidationError {
	v := &ValidationError{Fields: map[string][]string{}}
	v.Add(field, message)
	return v
}

func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = map[string][]string{}
	}
	e.Fields[field] = append(e.Fields[field], message)
}

// OrNil returns nil when no field was flagged
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e.Fields[k], " ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NotFoundError reports a missing resource by name, e.g. "Car"
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found.", e.Resource)
}

type ConflictReason string

const (
	ConflictAlreadyListed     ConflictReason = "already_listed"
	ConflictHasDependents     ConflictReason = "has_dependents"
	ConflictPriceMismatch     ConflictReason = "price_mismatch"
	ConflictUnavailable       ConflictReason = "unavailable"
	ConflictInvalidTransition ConflictReason = "invalid_transition"
)

// ConflictError means the request is well formed but the current state forbids it
type ConflictError struct {
	Reason  ConflictReason
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// Is matches any conflict with the same reason
func (e *ConflictError) Is(target error) bool {
	t, ok := target.(*ConflictError)
	return ok && t.Reason == e.Reason
}

// ReferenceError means a body field points at a row that does not exist
type ReferenceError struct {
	Field   string
	Message string
}

func (e *ReferenceError) Error() string {
	return e.Message
}

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrPasswordRequired   = errors.New("password is required")

	ErrEmailAlreadyExists = &repository.ConstraintViolation{Field: "email", Kind: repository.ConstraintUnique}
	ErrDuplicateCatalog   = &repository.ConstraintViolation{Field: "make,model,year", Kind: repository.ConstraintUnique}

	ErrCarAlreadyListed   = &ConflictError{Reason: ConflictAlreadyListed, Message: "This car is already listed."}
	ErrCarUnavailable     = &ConflictError{Reason: ConflictUnavailable, Message: "Car is not available for purchase."}
	ErrPriceMismatch      = &ConflictError{Reason: ConflictPriceMismatch, Message: "Amount does not match the car price."}
	ErrListingSold        = &ConflictError{Reason: ConflictInvalidTransition, Message: "A sold listing cannot be made available again."}
	ErrCarHasSales        = &ConflictError{Reason: ConflictHasDependents, Message: "Cannot delete car with associated transactions."}
	ErrCatalogInUse       = &ConflictError{Reason: ConflictHasDependents, Message: "Cannot delete. Please remove associated cars first."}
	ErrUserHasPurchases   = &ConflictError{Reason: ConflictHasDependents, Message: "Cannot delete user with recorded purchases."}
	ErrInvalidCarRef      = &ReferenceError{Field: "car_id", Message: "Invalid car ID provided."}
	ErrInvalidCatalogRef  = &ReferenceError{Field: "make_model_year_id", Message: "Invalid make_model_year_id provided."}
	errUserNotFound       = &NotFoundError{Resource: "User"}
	errCarNotFound        = &NotFoundError{Resource: "Car"}
	errListingNotFound    = &NotFoundError{Resource: "Listing"}
	errCatalogNotFound    = &NotFoundError{Resource: "Make, model, and year combination"}
	errTransactionMissing = &NotFoundError{Resource: "Car transaction"}
)
