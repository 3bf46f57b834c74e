package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderStatusCanTransitionTo(t *testing.T) {
	all := []OrderStatus{
		OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled,
	}
	allowed := map[OrderStatus][]OrderStatus{
		OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
		OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
		OrderStatusShipped:    {OrderStatusDelivered},
		OrderStatusDelivered:  {},
		OrderStatusCancelled:  {},
	}

	for from, targets := range allowed {
		ok := map[OrderStatus]bool{}
		for _, to := range targets {
			ok[to] = true
		}
		for _, to := range all {
			got := from.CanTransitionTo(to)
			assert.Equal(t, ok[to], got, "%s -> %s", from, to)
		}
	}
}

func TestOrderStatusIsValid(t *testing.T) {
	assert.True(t, OrderStatusPending.IsValid())
	assert.True(t, OrderStatusCancelled.IsValid())
	assert.False(t, OrderStatus("paid").IsValid())
	assert.False(t, OrderStatus("").IsValid())
}

func TestOrderModelUpdateStatus(t *testing.T) {
	db := newTestDB(t)
	orders := NewOrderModel(db)

	order := &Order{
		OrderNumber:     "ORD-20250901-TEST01",
		UserID:          "u1",
		StripeSessionID: "cs_test_update",
		Status:          OrderStatusPending,
	}
	require.NoError(t, db.Create(order).Error)

	t.Run("valid transition", func(t *testing.T) {
		updated, err := orders.UpdateStatus(order.ID, OrderStatusProcessing)
		require.NoError(t, err)
		assert.Equal(t, OrderStatusProcessing, updated.Status)
	})

	t.Run("skipping a state is rejected", func(t *testing.T) {
		_, err := orders.UpdateStatus(order.ID, OrderStatusDelivered)
		require.Error(t, err)
		ae, isApp := AsAppError(err)
		require.True(t, isApp)
		assert.Equal(t, "INVALID_TRANSITION", ae.Code)
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		_, err := orders.UpdateStatus(order.ID, OrderStatus("refunded"))
		require.Error(t, err)
		ae, isApp := AsAppError(err)
		require.True(t, isApp)
		assert.Equal(t, "INVALID_INPUT", ae.Code)
	})

	t.Run("missing order", func(t *testing.T) {
		_, err := orders.UpdateStatus("no-such-id", OrderStatusShipped)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestUpdatePaymentStatusByIntent(t *testing.T) {
	db := newTestDB(t)
	orders := NewOrderModel(db)

	order := &Order{
		OrderNumber:     "ORD-20250901-TEST02",
		UserID:          "u1",
		StripeSessionID: "cs_test_intent",
		StripeIntentID:  "pi_test_1",
		PaymentStatus:   PaymentStatusPaid,
		Status:          OrderStatusPending,
	}
	require.NoError(t, db.Create(order).Error)

	t.Run("failure event flips payment status", func(t *testing.T) {
		require.NoError(t, orders.UpdatePaymentStatusByIntent("pi_test_1", PaymentStatusFailed))
		var got Order
		require.NoError(t, db.First(&got, "id = ?", order.ID).Error)
		assert.Equal(t, PaymentStatusFailed, got.PaymentStatus)
	})

	t.Run("succeeded event restores paid", func(t *testing.T) {
		require.NoError(t, orders.UpdatePaymentStatusByIntent("pi_test_1", PaymentStatusPaid))
		var got Order
		require.NoError(t, db.First(&got, "id = ?", order.ID).Error)
		assert.Equal(t, PaymentStatusPaid, got.PaymentStatus)
	})

	t.Run("unknown intent", func(t *testing.T) {
		err := orders.UpdatePaymentStatusByIntent("pi_missing", PaymentStatusPaid)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("empty intent never matches", func(t *testing.T) {
		err := orders.UpdatePaymentStatusByIntent("", PaymentStatusPaid)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestFindBySessionIDAbsent(t *testing.T) {
	db := newTestDB(t)
	orders := NewOrderModel(db)

	order, err := orders.FindBySessionID("cs_never_seen")
	require.NoError(t, err)
	assert.Nil(t, order)
}
