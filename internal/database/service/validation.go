package service

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/database/models"
)

var validate = validator.New()

// Money columns are numeric(12,2)
const (
	moneyScale       = 2
	maxMoneyExponent = 10
	minMoneyExponent = -20
	maxMileage       = math.MaxInt32
)

var maxMoney = decimal.New(1, maxMoneyExponent)

// fieldChecker accumulates problems found in a partial update
type fieldChecker struct {
	errs ValidationError
}

func (c *fieldChecker) fail(field, format string, args ...any) {
	c.errs.Add(field, fmt.Sprintf(format, args...))
}

func (c *fieldChecker) err() error {
	return c.errs.OrNil()
}

// requiredString validates a present, non-nullable string field and returns
// it trimmed. The length limit applies to the trimmed value.
func (c *fieldChecker) requiredString(field string, o models.Optional[string], maxLen int) (string, bool) {
	if !o.Present {
		return "", false
	}
	v := strings.TrimSpace(o.Value)
	if o.Null || v == "" {
		c.fail(field, "Field may not be null or empty.")
		return "", false
	}
	if utf8.RuneCountInString(v) > maxLen {
		c.fail(field, "Longer than maximum length %d.", maxLen)
		return "", false
	}
	return v, true
}

// nullableString validates a present string field that may be cleared with null
func (c *fieldChecker) nullableString(field string, o models.Optional[string], maxLen int) (*string, bool) {
	if !o.Present {
		return nil, false
	}
	if !o.Null && utf8.RuneCountInString(o.Value) > maxLen {
		c.fail(field, "Longer than maximum length %d.", maxLen)
		return nil, false
	}
	return o.Ptr(), true
}

// money validates an amount against the numeric(12,2) column range.
// The exponent is checked before any arithmetic so inputs like 1e99999999
// are rejected without expanding them.
func (c *fieldChecker) money(field, label string, d decimal.Decimal) bool {
	exp := d.Exponent()
	switch {
	case exp > maxMoneyExponent || exp < minMoneyExponent:
		c.fail(field, "%s is out of range.", label)
	case d.IsNegative():
		c.fail(field, "%s must be a non-negative number.", label)
	case !d.Equal(d.Truncate(moneyScale)):
		c.fail(field, "%s must have at most %d decimal places.", label, moneyScale)
	case d.GreaterThanOrEqual(maxMoney):
		c.fail(field, "%s must be less than %s.", label, maxMoney.String())
	default:
		return true
	}
	return false
}

func (c *fieldChecker) mileage(v int) bool {
	if v < 0 || v > maxMileage {
		c.fail("mileage", "Mileage must be an integer between 0 and %d.", maxMileage)
		return false
	}
	return true
}

func (c *fieldChecker) email(field string, o models.Optional[string]) (string, bool) {
	v, ok := c.requiredString(field, o, 50)
	if !ok {
		return "", false
	}
	if !validEmail(v) {
		c.fail(field, "Invalid email format.")
		return "", false
	}
	return v, true
}

func validEmail(email string) bool {
	return validate.Var(email, "required,email") == nil
}
