package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v83"

	"github.com/AimHigh0322/fashion-EC-site-sub001/internal/models"
	"github.com/AimHigh0322/fashion-EC-site-sub001/internal/services"
)

type CheckoutHandler struct {
	checkout *services.CheckoutService
	orders   *services.OrderService
}

func NewCheckoutHandler(checkout *services.CheckoutService, orders *services.OrderService) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, orders: orders}
}

// POST /api/checkout/quote — price the cart for an address without opening a
// Stripe session. The storefront shows this before the pay button.
func (h *CheckoutHandler) Quote(c *gin.Context) {
	var req struct {
		AddressID string `json:"address_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "address_id is required")
		return
	}
	quote, addr, err := h.checkout.Quote(c.GetString("user_id"), req.AddressID)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"quote": quote, "address": addr})
}

// POST /api/checkout/session
func (h *CheckoutHandler) CreateSession(c *gin.Context) {
	var req struct {
		AddressID string `json:"address_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "address_id is required")
		return
	}
	sess, err := h.checkout.CreateSession(c.GetString("user_id"), c.GetString("email"), req.AddressID)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, sess)
}

// GET /api/checkout/verify?session_id=... — client-side fallback for the
// success redirect. Confirms payment with Stripe and materializes the order
// if the webhook has not landed yet. Safe to call any number of times.
func (h *CheckoutHandler) Verify(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		badRequest(c, "session_id is required")
		return
	}

	sess, err := h.checkout.RetrieveSession(sessionID)
	if err != nil {
		fail(c, models.NewAppError("NOT_FOUND", "unknown checkout session"))
		return
	}
	if sess.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		fail(c, models.ErrPaymentIncomplete)
		return
	}

	userID := c.GetString("user_id")
	if sess.Metadata["user_id"] != userID {
		fail(c, models.ErrNotFound)
		return
	}

	order, createdNow, err := h.orders.Materialize(services.MaterializeInput{
		SessionID:       sess.ID,
		PaymentIntentID: sessionIntentID(sess),
		UserID:          userID,
		Email:           sessionEmail(sess),
		AddressID:       sess.Metadata["address_id"],
		AmountTotal:     sess.AmountTotal,
	})
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"order": order, "created": createdNow})
}

func sessionEmail(sess *stripe.CheckoutSession) string {
	if sess.CustomerDetails != nil && sess.CustomerDetails.Email != "" {
		return sess.CustomerDetails.Email
	}
	return sess.CustomerEmail
}

// sessionIntentID handles the expandable payment_intent field, which arrives
// as a bare id on webhook payloads.
func sessionIntentID(sess *stripe.CheckoutSession) string {
	if sess.PaymentIntent != nil {
		return sess.PaymentIntent.ID
	}
	return ""
}
