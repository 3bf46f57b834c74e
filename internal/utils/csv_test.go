package utils

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AimHigh0322/fashion-EC-site-sub001/internal/models"
)

func TestProductsCSVRoundTrip(t *testing.T) {
	in := []models.Product{
		{SKU: "TS-001", Name: "Tシャツ", Description: "綿100%", Price: 2000, StockQuantity: 10, CategoryID: "cat1", Status: models.ProductStatusActive},
		{SKU: "PK-001", Name: "パーカー", Price: 5000, StockQuantity: 0, CategoryID: "cat1", Status: models.ProductStatusOutOfStock},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteProductsCSV(&buf, in))

	out, err := ParseProductsCSV(&buf)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "TS-001", out[0].SKU)
	assert.Equal(t, int64(2000), out[0].Price)
	assert.Equal(t, models.ProductStatusOutOfStock, out[1].Status)
}

func TestParseProductsCSVErrors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{"empty file", ""},
		{"wrong header", "id,name\n1,x\n"},
		{"header only", "sku,name,description,price,stock_quantity,category_id,status\n"},
		{"bad price", "sku,name,description,price,stock_quantity,category_id,status\nTS-1,x,,abc,1,,active\n"},
		{"negative stock", "sku,name,description,price,stock_quantity,category_id,status\nTS-1,x,,100,-1,,active\n"},
		{"unknown status", "sku,name,description,price,stock_quantity,category_id,status\nTS-1,x,,100,1,,archived\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseProductsCSV(strings.NewReader(tt.csv))
			require.Error(t, err)
			_, isApp := models.AsAppError(err)
			assert.True(t, isApp)
		})
	}
}

func TestParseProductsCSVDefaultsStatus(t *testing.T) {
	csv := "sku,name,description,price,stock_quantity,category_id,status\nTS-1,シャツ,,100,5,,\n"
	out, err := ParseProductsCSV(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, models.ProductStatusActive, out[0].Status)
}

func TestWriteOrdersCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteOrdersCSV(&buf, []models.Order{
		{OrderNumber: "ORD-20250901-ABC234", Status: models.OrderStatusPending, PaymentStatus: models.PaymentStatusPaid, Subtotal: 9000, Tax: 900, Total: 9900},
	}))
	got := buf.String()
	assert.Contains(t, got, "order_number,created_at,status")
	assert.Contains(t, got, "ORD-20250901-ABC234")
	assert.Contains(t, got, "9900")
}
