package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

type ConstraintKind string

const (
	ConstraintUnique     ConstraintKind = "unique"
	ConstraintNotNull    ConstraintKind = "not_null"
	ConstraintForeignKey ConstraintKind = "foreign_key"
)

// ConstraintViolation is returned when the database rejects a write.
// Field names the offending column, or columns joined by commas.
type ConstraintViolation struct {
	Field string
	Kind  ConstraintKind
	Err   error
}

func (e *ConstraintViolation) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s constraint violated", e.Kind)
	}
	return fmt.Sprintf("%s constraint violated on %s", e.Kind, e.Field)
}

func (e *ConstraintViolation) Unwrap() error {
	return e.Err
}

// Is matches another violation of the same kind on the same field, so
// sentinel values can be compared with errors.Is.
func (e *ConstraintViolation) Is(target error) bool {
	t, ok := target.(*ConstraintViolation)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Field == e.Field
}

// IsConstraintViolation reports whether err is a violation of the given kind
func IsConstraintViolation(err error, kind ConstraintKind) (*ConstraintViolation, bool) {
	var cv *ConstraintViolation
	if errors.As(err, &cv) && cv.Kind == kind {
		return cv, true
	}
	return nil, false
}

// PostgreSQL constraint names mapped to the field they guard
var constraintFields = map[string]string{
	"idx_users_email":           "email",
	"idx_makemodelyear_combo":   "make,model,year",
	"idx_listings_active_car":   "car_id",
	"fk_cars_make_model_year":   "make_model_year_id",
	"fk_listings_car":           "car_id",
	"fk_listings_user":          "user_id",
	"fk_car_transactions_car":   "car_id",
	"fk_car_transactions_buyer": "buyer_id",
}

// classify converts driver-level constraint errors into *ConstraintViolation
// and leaves everything else untouched.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		var kind ConstraintKind
		switch pgErr.Code {
		case "23505":
			kind = ConstraintUnique
		case "23502":
			return &ConstraintViolation{Field: pgErr.ColumnName, Kind: ConstraintNotNull, Err: err}
		case "23503":
			kind = ConstraintForeignKey
		default:
			return err
		}
		return &ConstraintViolation{Field: constraintFields[pgErr.ConstraintName], Kind: kind, Err: err}
	}

	// SQLite reports constraints in the message, e.g.
	// "UNIQUE constraint failed: users.email"
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed:"):
		return &ConstraintViolation{Field: sqliteColumns(msg, "UNIQUE constraint failed:"), Kind: ConstraintUnique, Err: err}
	case strings.Contains(msg, "NOT NULL constraint failed:"):
		return &ConstraintViolation{Field: sqliteColumns(msg, "NOT NULL constraint failed:"), Kind: ConstraintNotNull, Err: err}
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return &ConstraintViolation{Kind: ConstraintForeignKey, Err: err}
	}

	return err
}

func sqliteColumns(msg, prefix string) string {
	rest := strings.TrimSpace(msg[strings.Index(msg, prefix)+len(prefix):])
	parts := strings.Split(rest, ",")
	cols := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if i := strings.LastIndex(p, "."); i >= 0 {
			p = p[i+1:]
		}
		cols = append(cols, p)
	}
	return strings.Join(cols, ",")
}
