package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackingUpsert(t *testing.T) {
	db := newTestDB(t)
	tracking := NewTrackingModel(db)

	order := &Order{
		OrderNumber:     "ORD-20250901-TRACK1",
		UserID:          "u1",
		StripeSessionID: "cs_track_1",
		Status:          OrderStatusProcessing,
	}
	require.NoError(t, db.Create(order).Error)

	t.Run("shipped moves the order and stamps shipped_at", func(t *testing.T) {
		rec, err := tracking.Upsert(order.ID, "ヤマト運輸", "YM123456789", TrackingStatusShipped)
		require.NoError(t, err)
		assert.Equal(t, TrackingStatusShipped, rec.Status)
		require.NotNil(t, rec.ShippedAt)

		var got Order
		require.NoError(t, db.First(&got, "id = ?", order.ID).Error)
		assert.Equal(t, OrderStatusShipped, got.Status)
	})

	t.Run("second upsert updates in place", func(t *testing.T) {
		rec, err := tracking.Upsert(order.ID, "ヤマト運輸", "YM123456789", TrackingStatusDelivered)
		require.NoError(t, err)
		require.NotNil(t, rec.DeliveredAt)

		var count int64
		db.Model(&ShippingTracking{}).Where("order_id = ?", order.ID).Count(&count)
		assert.Equal(t, int64(1), count)

		var got Order
		require.NoError(t, db.First(&got, "id = ?", order.ID).Error)
		assert.Equal(t, OrderStatusDelivered, got.Status)
	})

	t.Run("invalid status rejected", func(t *testing.T) {
		_, err := tracking.Upsert(order.ID, "x", "y", TrackingStatus("lost"))
		require.Error(t, err)
	})

	t.Run("missing order", func(t *testing.T) {
		_, err := tracking.Upsert("no-such-order", "x", "y", TrackingStatusPreparing)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestTrackingCannotShipCancelledOrder(t *testing.T) {
	db := newTestDB(t)
	tracking := NewTrackingModel(db)

	order := &Order{
		OrderNumber:     "ORD-20250901-TRACK2",
		UserID:          "u1",
		StripeSessionID: "cs_track_2",
		Status:          OrderStatusCancelled,
	}
	require.NoError(t, db.Create(order).Error)

	_, err := tracking.Upsert(order.ID, "ヤマト運輸", "YM000", TrackingStatusShipped)
	require.Error(t, err)
	ae, isApp := AsAppError(err)
	require.True(t, isApp)
	assert.Equal(t, "INVALID_TRANSITION", ae.Code)

	var got Order
	require.NoError(t, db.First(&got, "id = ?", order.ID).Error)
	assert.Equal(t, OrderStatusCancelled, got.Status)
}
