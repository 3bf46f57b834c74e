package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createProduct(t *testing.T, db *gorm.DB, sku string, price int64, stock int) *Product {
	t.Helper()
	p := &Product{Name: "商品 " + sku, SKU: sku, Price: price, StockQuantity: stock, Status: ProductStatusActive}
	if stock == 0 {
		p.Status = ProductStatusOutOfStock
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func TestProductCreateDuplicateSKU(t *testing.T) {
	db := newTestDB(t)
	products := NewProductModel(db)

	require.NoError(t, products.Create(&Product{Name: "a", SKU: "SKU-1", Price: 100}))
	err := products.Create(&Product{Name: "b", SKU: "SKU-1", Price: 200})
	assert.ErrorIs(t, err, ErrDuplicateSKU)
}

func TestDecrementStockTx(t *testing.T) {
	db := newTestDB(t)
	p := createProduct(t, db, "SKU-DEC", 1000, 3)

	t.Run("decrement writes ledger row", func(t *testing.T) {
		err := db.Transaction(func(tx *gorm.DB) error {
			return DecrementStockTx(tx, p.ID, "order-1", 2)
		})
		require.NoError(t, err)

		var got Product
		require.NoError(t, db.First(&got, "id = ?", p.ID).Error)
		assert.Equal(t, 1, got.StockQuantity)
		assert.Equal(t, ProductStatusActive, got.Status)

		var ledger StockHistory
		require.NoError(t, db.First(&ledger, "order_id = ?", "order-1").Error)
		assert.Equal(t, -2, ledger.Delta)
		assert.Equal(t, StockReasonOrder, ledger.Reason)
	})

	t.Run("last unit flips status to out_of_stock", func(t *testing.T) {
		err := db.Transaction(func(tx *gorm.DB) error {
			return DecrementStockTx(tx, p.ID, "order-2", 1)
		})
		require.NoError(t, err)

		var got Product
		require.NoError(t, db.First(&got, "id = ?", p.ID).Error)
		assert.Equal(t, 0, got.StockQuantity)
		assert.Equal(t, ProductStatusOutOfStock, got.Status)
	})

	t.Run("shortage rolls the transaction back", func(t *testing.T) {
		err := db.Transaction(func(tx *gorm.DB) error {
			return DecrementStockTx(tx, p.ID, "order-3", 1)
		})
		assert.ErrorIs(t, err, ErrStockShortage)

		var count int64
		db.Model(&StockHistory{}).Where("order_id = ?", "order-3").Count(&count)
		assert.Zero(t, count)
	})
}

func TestRestoreStockTx(t *testing.T) {
	db := newTestDB(t)
	p := createProduct(t, db, "SKU-RES", 1000, 0)

	err := db.Transaction(func(tx *gorm.DB) error {
		return RestoreStockTx(tx, p.ID, "order-1", 2)
	})
	require.NoError(t, err)

	var got Product
	require.NoError(t, db.First(&got, "id = ?", p.ID).Error)
	assert.Equal(t, 2, got.StockQuantity)
	assert.Equal(t, ProductStatusActive, got.Status)

	var ledger StockHistory
	require.NoError(t, db.First(&ledger, "order_id = ?", "order-1").Error)
	assert.Equal(t, 2, ledger.Delta)
	assert.Equal(t, StockReasonCancel, ledger.Reason)
}

func TestAdjustStock(t *testing.T) {
	db := newTestDB(t)
	products := NewProductModel(db)
	p := createProduct(t, db, "SKU-ADJ", 1000, 5)

	t.Run("restock", func(t *testing.T) {
		got, err := products.AdjustStock(p.ID, 10, StockReasonRestock, "入荷")
		require.NoError(t, err)
		assert.Equal(t, 15, got.StockQuantity)
	})

	t.Run("cannot go negative", func(t *testing.T) {
		_, err := products.AdjustStock(p.ID, -20, StockReasonAdjustment, "")
		require.Error(t, err)
		ae, isApp := AsAppError(err)
		require.True(t, isApp)
		assert.Equal(t, "INVALID_INPUT", ae.Code)
	})

	t.Run("drain to zero flips status", func(t *testing.T) {
		got, err := products.AdjustStock(p.ID, -15, StockReasonAdjustment, "棚卸し")
		require.NoError(t, err)
		assert.Equal(t, 0, got.StockQuantity)
		assert.Equal(t, ProductStatusOutOfStock, got.Status)
	})
}

func TestDiscontinueKeepsRow(t *testing.T) {
	db := newTestDB(t)
	products := NewProductModel(db)
	p := createProduct(t, db, "SKU-DISC", 1000, 5)

	require.NoError(t, products.Discontinue(p.ID))

	got, err := products.FindByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, ProductStatusDiscontinued, got.Status)
}
