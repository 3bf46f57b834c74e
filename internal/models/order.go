package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo is the single transition table shared by every order
// mutator (admin status updates, tracking callbacks, cancellation).
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return target == OrderStatusProcessing || target == OrderStatusCancelled
	case OrderStatusProcessing:
		return target == OrderStatusShipped || target == OrderStatusCancelled
	case OrderStatusShipped:
		return target == OrderStatusDelivered
	case OrderStatusDelivered, OrderStatusCancelled:
		return false
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// Order header. Amount fields are immutable once the order is materialized;
// only status and payment_status change afterwards.
type Order struct {
	ID              string        `gorm:"type:char(36);primaryKey" json:"id"`
	OrderNumber     string        `gorm:"size:32;uniqueIndex" json:"order_number"`
	UserID          string        `gorm:"type:char(36);index" json:"user_id"`
	CustomerID      string        `gorm:"type:char(36);index" json:"customer_id"`
	AddressID       string        `gorm:"type:char(36)" json:"address_id"`
	StripeSessionID string        `gorm:"size:255;uniqueIndex" json:"stripe_session_id"`
	StripeIntentID  string        `gorm:"size:255;index" json:"stripe_payment_intent_id,omitempty"`
	Subtotal        int64         `json:"subtotal"`
	DiscountTotal   int64         `json:"discount_total"`
	Tax             int64         `json:"tax"`
	ShippingFee     int64         `json:"shipping_fee"`
	Total           int64         `json:"total"`
	PaymentStatus   PaymentStatus `gorm:"size:16;default:pending" json:"payment_status"`
	Status          OrderStatus   `gorm:"size:16;index;default:pending" json:"status"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// OrderItem snapshots the product at purchase time; later product edits must
// not alter historical orders, so nothing here references live product rows
// beyond the id.
type OrderItem struct {
	ID          string    `gorm:"type:char(36);primaryKey" json:"id"`
	OrderID     string    `gorm:"type:char(36);index" json:"order_id"`
	ProductID   string    `gorm:"type:char(36)" json:"product_id"`
	ProductName string    `gorm:"size:255" json:"product_name"`
	SKU         string    `gorm:"size:64" json:"sku"`
	UnitPrice   int64     `json:"unit_price"`
	Quantity    int       `json:"quantity"`
	CreatedAt   time.Time `json:"created_at"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

type OrderModel struct {
	db *gorm.DB
}

func NewOrderModel(db *gorm.DB) *OrderModel {
	return &OrderModel{db: db}
}

// FindBySessionID is the idempotency probe for order materialization.
// Returns (nil, nil) when no order exists for the session yet.
func (m *OrderModel) FindBySessionID(sessionID string) (*Order, error) {
	var order Order
	err := m.db.Preload("Items").Where("stripe_session_id = ?", sessionID).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (m *OrderModel) FindByID(id string) (*Order, error) {
	var order Order
	err := m.db.Preload("Items").Where("id = ?", id).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByIDForUser enforces ownership: customers can only see their own orders.
func (m *OrderModel) FindByIDForUser(id, userID string) (*Order, error) {
	order, err := m.FindByID(id)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, ErrNotFound
	}
	return order, nil
}

func (m *OrderModel) ListByUser(userID string, page, perPage int) ([]Order, int64, error) {
	var total int64
	if err := m.db.Model(&Order{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var orders []Order
	err := m.db.Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Scopes(Paginate(page, perPage)).
		Find(&orders).Error
	return orders, total, err
}

// List is the admin-side listing with optional status filter.
func (m *OrderModel) List(status OrderStatus, page, perPage int) ([]Order, int64, error) {
	q := m.db.Model(&Order{})
	if status != "" {
		if !status.IsValid() {
			return nil, 0, NewAppError("INVALID_INPUT", fmt.Sprintf("unknown order status %q", status))
		}
		q = q.Where("status = ?", status)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var orders []Order
	err := q.Preload("Items").Order("created_at DESC").Scopes(Paginate(page, perPage)).Find(&orders).Error
	return orders, total, err
}

// ListForExport returns all orders in a window, newest first, without
// pagination. Zero times leave that bound open.
func (m *OrderModel) ListForExport(status OrderStatus, from, to time.Time) ([]Order, error) {
	q := m.db.Model(&Order{})
	if status != "" {
		if !status.IsValid() {
			return nil, NewAppError("INVALID_INPUT", fmt.Sprintf("unknown order status %q", status))
		}
		q = q.Where("status = ?", status)
	}
	if !from.IsZero() {
		q = q.Where("created_at >= ?", from)
	}
	if !to.IsZero() {
		q = q.Where("created_at < ?", to)
	}
	var orders []Order
	err := q.Order("created_at DESC").Find(&orders).Error
	return orders, err
}

// UpdateStatus moves an order through the state machine. The read and the
// write share one transaction so concurrent mutators cannot skip states.
func (m *OrderModel) UpdateStatus(id string, target OrderStatus) (*Order, error) {
	if !target.IsValid() {
		return nil, NewAppError("INVALID_INPUT", fmt.Sprintf("unknown order status %q", target))
	}
	var order Order
	err := m.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if !order.Status.CanTransitionTo(target) {
			return NewAppError("INVALID_TRANSITION",
				fmt.Sprintf("cannot move order from %s to %s", order.Status, target))
		}
		order.Status = target
		return tx.Model(&Order{}).Where("id = ?", id).Update("status", target).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdatePaymentStatusByIntent correlates async payment events. Stripe keys
// payment_intent.succeeded/payment_failed by the intent id, not the checkout
// session, so the intent id captured at materialization is the join key.
func (m *OrderModel) UpdatePaymentStatusByIntent(intentID string, status PaymentStatus) error {
	if intentID == "" {
		return ErrNotFound
	}
	res := m.db.Model(&Order{}).
		Where("stripe_intent_id = ?", intentID).
		Update("payment_status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Paginate is shared by every listing query.
func Paginate(page, perPage int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page < 1 {
			page = 1
		}
		switch {
		case perPage <= 0:
			perPage = 20
		case perPage > 100:
			perPage = 100
		}
		return db.Offset((page - 1) * perPage).Limit(perPage)
	}
}
