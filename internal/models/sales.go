package models

import (
	"time"

	"gorm.io/gorm"
)

// Sales reporting aggregates. Cancelled orders are excluded everywhere;
// revenue means paid, non-cancelled order totals.

type SalesSummary struct {
	OrderCount    int64 `json:"order_count"`
	Revenue       int64 `json:"revenue"`
	DiscountTotal int64 `json:"discount_total"`
	TaxTotal      int64 `json:"tax_total"`
	ShippingTotal int64 `json:"shipping_total"`
}

type DailySales struct {
	Date       string `json:"date"`
	OrderCount int64  `json:"order_count"`
	Revenue    int64  `json:"revenue"`
}

type ProductSales struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	SKU         string `json:"sku"`
	Quantity    int64  `json:"quantity"`
	Revenue     int64  `json:"revenue"`
}

type SalesModel struct {
	db *gorm.DB
}

func NewSalesModel(db *gorm.DB) *SalesModel {
	return &SalesModel{db: db}
}

// base scopes to revenue-bearing orders. Zero from/to leave that side of
// the range open.
func (m *SalesModel) base(from, to time.Time) *gorm.DB {
	q := m.db.Model(&Order{}).
		Where("payment_status = ?", PaymentStatusPaid).
		Where("status <> ?", OrderStatusCancelled)
	if !from.IsZero() {
		q = q.Where("created_at >= ?", from)
	}
	if !to.IsZero() {
		q = q.Where("created_at < ?", to)
	}
	return q
}

func (m *SalesModel) Summary(from, to time.Time) (*SalesSummary, error) {
	var s SalesSummary
	err := m.base(from, to).
		Select(`COUNT(*) AS order_count,
			COALESCE(SUM(total), 0) AS revenue,
			COALESCE(SUM(discount_total), 0) AS discount_total,
			COALESCE(SUM(tax), 0) AS tax_total,
			COALESCE(SUM(shipping_fee), 0) AS shipping_total`).
		Scan(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (m *SalesModel) Daily(from, to time.Time) ([]DailySales, error) {
	var rows []DailySales
	err := m.base(from, to).
		Select("DATE(created_at) AS date, COUNT(*) AS order_count, COALESCE(SUM(total), 0) AS revenue").
		Group("DATE(created_at)").
		Order("date").
		Scan(&rows).Error
	return rows, err
}

func (m *SalesModel) ByProduct(from, to time.Time, limit int) ([]ProductSales, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var rows []ProductSales
	q := m.db.Model(&OrderItem{}).
		Select(`order_items.product_id,
			order_items.product_name,
			order_items.sku,
			COALESCE(SUM(order_items.quantity), 0) AS quantity,
			COALESCE(SUM(order_items.unit_price * order_items.quantity), 0) AS revenue`).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.payment_status = ?", PaymentStatusPaid).
		Where("orders.status <> ?", OrderStatusCancelled)
	if !from.IsZero() {
		q = q.Where("orders.created_at >= ?", from)
	}
	if !to.IsZero() {
		q = q.Where("orders.created_at < ?", to)
	}
	err := q.Group("order_items.product_id, order_items.product_name, order_items.sku").
		Order("revenue DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
