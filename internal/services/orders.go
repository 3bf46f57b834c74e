package services

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/AimHigh0322/fashion-EC-site-sub001/internal/models"
	"github.com/AimHigh0322/fashion-EC-site-sub001/internal/utils"
)

// OrderService owns the order lifecycle: materializing a paid checkout
// session into an order and cancelling it again. Every multi-row operation
// runs in one DB transaction so stock, ledger and order rows never diverge.
type OrderService struct {
	db     *gorm.DB
	orders *models.OrderModel
	clock  Clock
	mailer *utils.Mailer // nil when SMTP is not configured
}

func NewOrderService(db *gorm.DB, orders *models.OrderModel, mailer *utils.Mailer) *OrderService {
	return &OrderService{db: db, orders: orders, clock: realClock{}, mailer: mailer}
}

// MaterializeInput carries what the webhook (or the verify fallback) knows
// about the completed session.
type MaterializeInput struct {
	SessionID       string
	PaymentIntentID string
	UserID          string
	Email           string
	Name            string
	AddressID       string
	AmountTotal     int64 // what Stripe actually charged; 0 when unknown
}

// errSessionClaimed signals that a concurrent trigger inserted the order for
// this session between the idempotency check and our own insert.
var errSessionClaimed = errors.New("checkout session already claimed")

// Materialize turns a completed checkout session into an order, exactly
// once. Both the webhook and the client-side verify fallback call this;
// whichever lands first wins, the loser gets the existing order back.
//
// One transaction: idempotency re-check, customer upsert, order + item
// snapshots, guarded stock decrement with ledger rows, cart clear.
func (s *OrderService) Materialize(in MaterializeInput) (*models.Order, bool, error) {
	// Cheap probe outside the transaction; the replay case never pays for
	// a transaction.
	if existing, err := s.orders.FindBySessionID(in.SessionID); err != nil {
		return nil, false, err
	} else if existing != nil {
		return existing, false, nil
	}

	order, err := s.materialize(in)
	if errors.Is(err, errSessionClaimed) {
		// Lost the race on the unique index. Normally the winner committed
		// and its order is the answer; if the winner rolled back as well the
		// cart is still intact, so one more attempt rebuilds the order.
		if existing, ferr := s.orders.FindBySessionID(in.SessionID); ferr != nil {
			return nil, false, ferr
		} else if existing != nil {
			return existing, false, nil
		}
		order, err = s.materialize(in)
	}
	if err != nil {
		return nil, false, err
	}

	if order == nil {
		// Lost the race; the winner's order is committed by now.
		existing, err := s.orders.FindBySessionID(in.SessionID)
		if err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}

	zap.S().Infow("order materialized",
		"order_number", order.OrderNumber, "session_id", in.SessionID, "total", order.Total)

	if s.mailer != nil {
		o := *order
		go func() {
			if err := s.mailer.SendOrderConfirmation(in.Email, &o); err != nil {
				zap.S().Warnw("order confirmation mail failed", "order_number", o.OrderNumber, "error", err)
			}
		}()
	}

	return order, true, nil
}

func (s *OrderService) materialize(in MaterializeInput) (*models.Order, error) {
	var order *models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Re-check inside the transaction; two concurrent triggers race to
		// this point and the unique index on stripe_session_id backstops it.
		var count int64
		if err := tx.Model(&models.Order{}).
			Where("stripe_session_id = ?", in.SessionID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		customer, err := models.UpsertCustomerTx(tx, in.UserID, in.Email, in.Name)
		if err != nil {
			return err
		}

		txCarts := models.NewCartModel(tx)
		lines, err := txCarts.Lines(in.UserID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return models.ErrEmptyCart
		}

		productIDs := make([]string, 0, len(lines))
		for _, line := range lines {
			productIDs = append(productIDs, line.Product.ID)
		}
		campaigns, err := models.NewCampaignModel(tx).ActiveForProducts(productIDs, s.clock.Now())
		if err != nil {
			return err
		}

		prefecture := ""
		if in.AddressID != "" {
			var addr models.ShippingAddress
			if err := tx.Where("id = ?", in.AddressID).First(&addr).Error; err == nil {
				prefecture = addr.Prefecture
			}
		}
		quote := BuildQuote(ApplyCampaigns(lines, campaigns), prefecture)
		if in.AmountTotal > 0 && in.AmountTotal != quote.Total {
			// a campaign window closed (or opened) between session creation
			// and this trigger; the charged amount stays authoritative in
			// Stripe, our totals reflect the re-priced cart
			zap.S().Warnw("order total diverged from charged amount",
				"session_id", in.SessionID, "quoted", quote.Total, "charged", in.AmountTotal)
		}

		order = &models.Order{
			OrderNumber:     utils.NewOrderNumber(s.clock.Now()),
			UserID:          in.UserID,
			CustomerID:      customer.ID,
			AddressID:       in.AddressID,
			StripeSessionID: in.SessionID,
			StripeIntentID:  in.PaymentIntentID,
			Subtotal:        quote.Subtotal,
			DiscountTotal:   quote.DiscountTotal,
			Tax:             quote.Tax,
			ShippingFee:     quote.ShippingFee,
			Total:           quote.Total,
			PaymentStatus:   models.PaymentStatusPaid,
			Status:          models.OrderStatusPending,
		}
		if err := tx.Create(order).Error; err != nil {
			if models.IsDuplicateKey(err) {
				order = nil
				return errSessionClaimed
			}
			return err
		}

		for _, line := range quote.Lines {
			item := models.OrderItem{
				OrderID:     order.ID,
				ProductID:   line.ProductID,
				ProductName: line.ProductName,
				SKU:         line.SKU,
				UnitPrice:   line.DiscountedPrice,
				Quantity:    line.Quantity,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			order.Items = append(order.Items, item)

			if err := models.DecrementStockTx(tx, line.ProductID, order.ID, line.Quantity); err != nil {
				if ae, ok := models.AsAppError(err); ok && ae.Code == "STOCK_SHORTAGE" {
					return models.NewAppError("STOCK_SHORTAGE",
						fmt.Sprintf("%s went out of stock before payment completed", line.ProductName))
				}
				return err
			}
		}

		return models.ClearCartTx(tx, in.UserID)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Cancel moves an order to cancelled and restores stock. Only pending and
// processing orders qualify; shipped orders point the customer at support,
// delivered and already-cancelled ones reject outright.
func (s *OrderService) Cancel(orderID, userID string, isAdmin bool) (*models.Order, error) {
	var order models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").Where("id = ?", orderID).First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrNotFound
			}
			return err
		}
		if !isAdmin && order.UserID != userID {
			return models.ErrNotFound
		}

		switch order.Status {
		case models.OrderStatusCancelled:
			return models.NewAppError("ALREADY_CANCELLED", "order is already cancelled")
		case models.OrderStatusDelivered:
			return models.NewAppError("INVALID_TRANSITION", "delivered orders cannot be cancelled")
		case models.OrderStatusShipped:
			return models.NewAppError("ORDER_SHIPPED",
				"order has already shipped; please contact support to arrange a return")
		}

		if err := tx.Model(&models.Order{}).
			Where("id = ?", order.ID).
			Update("status", models.OrderStatusCancelled).Error; err != nil {
			return err
		}
		order.Status = models.OrderStatusCancelled

		for _, item := range order.Items {
			if err := models.RestoreStockTx(tx, item.ProductID, order.ID, item.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	zap.S().Infow("order cancelled", "order_number", order.OrderNumber)
	return &order, nil
}
