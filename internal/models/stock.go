package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StockReason string

const (
	StockReasonOrder      StockReason = "order"
	StockReasonCancel     StockReason = "cancel"
	StockReasonAdjustment StockReason = "adjustment"
	StockReasonRestock    StockReason = "restock"
)

// StockHistory is the append-only ledger of stock_quantity deltas. Rows are
// only ever written inside the transaction that mutated the product row,
// which is the one consistency invariant the system relies on.
type StockHistory struct {
	ID        string      `gorm:"type:char(36);primaryKey" json:"id"`
	ProductID string      `gorm:"type:char(36);index" json:"product_id"`
	OrderID   string      `gorm:"type:char(36);index" json:"order_id,omitempty"`
	Delta     int         `json:"delta"`
	Reason    StockReason `gorm:"size:16" json:"reason"`
	Note      string      `gorm:"size:255" json:"note,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

func (h *StockHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	return nil
}

func appendStockHistory(tx *gorm.DB, productID, orderID string, delta int, reason StockReason, note string) error {
	return tx.Create(&StockHistory{
		ProductID: productID,
		OrderID:   orderID,
		Delta:     delta,
		Reason:    reason,
		Note:      note,
	}).Error
}

type StockModel struct {
	db *gorm.DB
}

func NewStockModel(db *gorm.DB) *StockModel {
	return &StockModel{db: db}
}

func (m *StockModel) ListByProduct(productID string, page, perPage int) ([]StockHistory, int64, error) {
	var total int64
	if err := m.db.Model(&StockHistory{}).Where("product_id = ?", productID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []StockHistory
	err := m.db.Where("product_id = ?", productID).
		Order("created_at DESC").
		Scopes(Paginate(page, perPage)).
		Find(&rows).Error
	return rows, total, err
}

// NetDeltaForOrder sums the ledger for one order; after a cancellation the
// result is zero.
func (m *StockModel) NetDeltaForOrder(orderID string) (int, error) {
	var net *int
	err := m.db.Model(&StockHistory{}).
		Where("order_id = ?", orderID).
		Select("SUM(delta)").
		Scan(&net).Error
	if err != nil {
		return 0, err
	}
	if net == nil {
		return 0, nil
	}
	return *net, nil
}
