package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartAddUpserts(t *testing.T) {
	db := newTestDB(t)
	carts := NewCartModel(db)
	p := createProduct(t, db, "SKU-CART", 1000, 10)

	first, err := carts.Add("u1", p.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Quantity)

	second, err := carts.Add("u1", p.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 5, second.Quantity)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	db.Model(&CartItem{}).Where("user_id = ?", "u1").Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCartAddRejectsNonPositiveQuantity(t *testing.T) {
	db := newTestDB(t)
	carts := NewCartModel(db)

	_, err := carts.Add("u1", "p1", 0)
	require.Error(t, err)
	_, err = carts.Add("u1", "p1", -2)
	require.Error(t, err)
}

func TestCartLinesSkipsDiscontinued(t *testing.T) {
	db := newTestDB(t)
	carts := NewCartModel(db)
	products := NewProductModel(db)

	keep := createProduct(t, db, "SKU-KEEP", 1000, 10)
	drop := createProduct(t, db, "SKU-DROP", 2000, 10)

	_, err := carts.Add("u1", keep.ID, 1)
	require.NoError(t, err)
	_, err = carts.Add("u1", drop.ID, 1)
	require.NoError(t, err)

	require.NoError(t, products.Discontinue(drop.ID))

	lines, err := carts.Lines("u1")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, keep.ID, lines[0].Product.ID)
}

func TestCartUpdateQuantityMissingRow(t *testing.T) {
	db := newTestDB(t)
	carts := NewCartModel(db)

	_, err := carts.UpdateQuantity("u1", "nope", 3)
	assert.ErrorIs(t, err, ErrNotFound)
}
