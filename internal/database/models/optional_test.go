package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type patch struct {
	Name  Optional[string]          `json:"name"`
	Price Optional[decimal.Decimal] `json:"price"`
	Phone Optional[string]          `json:"phone_number"`
}

func TestOptional_DistinguishesAbsentNullAndSet(t *testing.T) {
	var p patch
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Alice","phone_number":null}`), &p))

	assert.True(t, p.Name.Present)
	assert.False(t, p.Name.Null)
	assert.Equal(t, "Alice", p.Name.Value)

	assert.True(t, p.Phone.Present)
	assert.True(t, p.Phone.Null)
	assert.Nil(t, p.Phone.Ptr())

	assert.False(t, p.Price.Present)
}

func TestOptional_DecimalValue(t *testing.T) {
	var p patch
	require.NoError(t, json.Unmarshal([]byte(`{"price":19999.99}`), &p))

	assert.True(t, p.Price.Present)
	assert.True(t, p.Price.Value.Equal(decimal.RequireFromString("19999.99")))
}

func TestOptional_TypeMismatch(t *testing.T) {
	var p patch
	assert.Error(t, json.Unmarshal([]byte(`{"name":12}`), &p))
}

func TestCarJSON_PriceIsNumber(t *testing.T) {
	data, err := json.Marshal(Car{Price: decimal.RequireFromString("20000")})
	require.NoError(t, err)

	assert.Contains(t, string(data), `"price":20000`)
	assert.NotContains(t, string(data), `"make_model_year":`)
}

func TestUserJSON_HidesPassword(t *testing.T) {
	data, err := json.Marshal(User{Email: "a@b.c", Password: "hash"})
	require.NoError(t, err)

	assert.NotContains(t, string(data), "hash")
	assert.NotContains(t, string(data), "password")
}
