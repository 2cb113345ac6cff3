package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestProduct_PriceJSONRoundTrip(t *testing.T) {
	product := Product{
		ID:    42,
		Name:  "Laptop",
		Price: decimal.RequireFromString("1299.99"),
		Stock: 10,
	}

	data, err := json.Marshal(product)
	require.NoError(t, err)
	require.Contains(t, string(data), `"price":1299.99`)

	var decoded Product
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.True(t, decoded.Price.Equal(product.Price), "expected %s, got %s", product.Price, decoded.Price)
	require.Equal(t, "1299.99", decoded.Price.StringFixed(2))
}

func TestProduct_PriceTrailingZeroPreserved(t *testing.T) {
	product := Product{Name: "Mouse", Price: decimal.RequireFromString("19.90")}

	data, err := json.Marshal(product)
	require.NoError(t, err)

	var decoded Product
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, "19.90", decoded.Price.StringFixed(2))
}
