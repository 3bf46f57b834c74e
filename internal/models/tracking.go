package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TrackingStatus string

const (
	TrackingStatusPreparing TrackingStatus = "preparing"
	TrackingStatusShipped   TrackingStatus = "shipped"
	TrackingStatusInTransit TrackingStatus = "in_transit"
	TrackingStatusDelivered TrackingStatus = "delivered"
)

func (s TrackingStatus) IsValid() bool {
	switch s {
	case TrackingStatusPreparing, TrackingStatusShipped, TrackingStatusInTransit, TrackingStatusDelivered:
		return true
	}
	return false
}

// orderStatusFor maps a tracking sub-status to the order status it implies.
// preparing and in_transit do not move the order.
func (s TrackingStatus) orderStatusFor() (OrderStatus, bool) {
	switch s {
	case TrackingStatusShipped:
		return OrderStatusShipped, true
	case TrackingStatusDelivered:
		return OrderStatusDelivered, true
	}
	return "", false
}

// ShippingTracking is the one-per-order shipment record.
type ShippingTracking struct {
	ID             string         `gorm:"type:char(36);primaryKey" json:"id"`
	OrderID        string         `gorm:"type:char(36);uniqueIndex" json:"order_id"`
	Carrier        string         `gorm:"size:64" json:"carrier"`
	TrackingNumber string         `gorm:"size:64" json:"tracking_number"`
	Status         TrackingStatus `gorm:"size:16;default:preparing" json:"status"`
	ShippedAt      *time.Time     `json:"shipped_at,omitempty"`
	DeliveredAt    *time.Time     `json:"delivered_at,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

func (t *ShippingTracking) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

type TrackingModel struct {
	db *gorm.DB
}

func NewTrackingModel(db *gorm.DB) *TrackingModel {
	return &TrackingModel{db: db}
}

func (m *TrackingModel) FindByOrderID(orderID string) (*ShippingTracking, error) {
	var t ShippingTracking
	err := m.db.Where("order_id = ?", orderID).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Upsert creates or updates the tracking record for an order and, when the
// sub-status implies an order status change, applies it through the same
// transition table as every other mutator — in one transaction.
func (m *TrackingModel) Upsert(orderID, carrier, trackingNumber string, status TrackingStatus) (*ShippingTracking, error) {
	if !status.IsValid() {
		return nil, NewAppError("INVALID_INPUT", fmt.Sprintf("unknown tracking status %q", status))
	}
	var t ShippingTracking
	err := m.db.Transaction(func(tx *gorm.DB) error {
		var order Order
		if err := tx.Where("id = ?", orderID).First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		now := time.Now()
		err := tx.Where("order_id = ?", orderID).First(&t).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			t = ShippingTracking{OrderID: orderID, Carrier: carrier, TrackingNumber: trackingNumber, Status: status}
		case err != nil:
			return err
		default:
			t.Carrier = carrier
			t.TrackingNumber = trackingNumber
			t.Status = status
		}
		if status == TrackingStatusShipped && t.ShippedAt == nil {
			t.ShippedAt = &now
		}
		if status == TrackingStatusDelivered && t.DeliveredAt == nil {
			t.DeliveredAt = &now
		}
		if err := tx.Save(&t).Error; err != nil {
			return err
		}

		if next, ok := status.orderStatusFor(); ok && order.Status != next {
			if !order.Status.CanTransitionTo(next) {
				return NewAppError("INVALID_TRANSITION",
					fmt.Sprintf("cannot move order from %s to %s", order.Status, next))
			}
			if err := tx.Model(&Order{}).Where("id = ?", orderID).Update("status", next).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &t, nil
}
