package services

import (
	"fmt"

	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/checkout/session"
	"go.uber.org/zap"

	"github.com/AimHigh0322/fashion-EC-site-sub001/internal/models"
)

// CheckoutService builds Stripe Checkout Sessions from the user's cart.
// Session creation persists nothing; the order is materialized later by the
// webhook or the verify fallback.
type CheckoutService struct {
	carts     *models.CartModel
	addresses *models.AddressModel
	campaigns *models.CampaignModel
	clock     Clock

	frontURL string
}

func NewCheckoutService(carts *models.CartModel, addresses *models.AddressModel, campaigns *models.CampaignModel, frontURL string) *CheckoutService {
	return &CheckoutService{
		carts:     carts,
		addresses: addresses,
		campaigns: campaigns,
		clock:     realClock{},
		frontURL:  frontURL,
	}
}

type CheckoutSession struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
	Quote     Quote  `json:"quote"`
}

// Quote validates the cart and prices it without touching Stripe. Shared by
// session creation and the cart-preview endpoint.
func (s *CheckoutService) Quote(userID, addressID string) (*Quote, *models.ShippingAddress, error) {
	addr, err := s.addresses.FindForUser(addressID, userID)
	if err != nil {
		return nil, nil, err
	}

	lines, err := s.carts.Lines(userID)
	if err != nil {
		return nil, nil, err
	}
	if len(lines) == 0 {
		return nil, nil, models.ErrEmptyCart
	}

	productIDs := make([]string, 0, len(lines))
	for _, line := range lines {
		if line.Product.Status != models.ProductStatusActive {
			return nil, nil, models.NewAppError("PRODUCT_INACTIVE",
				fmt.Sprintf("%s is not available for purchase", line.Product.Name))
		}
		if line.CartItem.Quantity > line.Product.StockQuantity {
			return nil, nil, models.NewAppError("STOCK_SHORTAGE",
				fmt.Sprintf("%s: requested %d but only %d in stock",
					line.Product.Name, line.CartItem.Quantity, line.Product.StockQuantity))
		}
		productIDs = append(productIDs, line.Product.ID)
	}

	campaigns, err := s.campaigns.ActiveForProducts(productIDs, s.clock.Now())
	if err != nil {
		return nil, nil, err
	}

	quote := BuildQuote(ApplyCampaigns(lines, campaigns), addr.Prefecture)
	return &quote, addr, nil
}

// CreateSession prices the cart and opens a Stripe Checkout Session with one
// JPY line item per product plus separate shipping and tax lines. JPY is
// zero-decimal in Stripe, so unit amounts are plain yen.
func (s *CheckoutService) CreateSession(userID, email, addressID string) (*CheckoutSession, error) {
	quote, _, err := s.Quote(userID, addressID)
	if err != nil {
		return nil, err
	}

	items := make([]*stripe.CheckoutSessionLineItemParams, 0, len(quote.Lines)+2)
	for _, line := range quote.Lines {
		items = append(items, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(string(stripe.CurrencyJPY)),
				UnitAmount: stripe.Int64(line.DiscountedPrice),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(line.ProductName),
				},
			},
			Quantity: stripe.Int64(int64(line.Quantity)),
		})
	}
	if quote.ShippingFee > 0 {
		items = append(items, jpyLineItem("送料", quote.ShippingFee))
	}
	if quote.Tax > 0 {
		items = append(items, jpyLineItem("消費税", quote.Tax))
	}

	params := &stripe.CheckoutSessionParams{
		Mode:          stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:     items,
		CustomerEmail: stripe.String(email),
		SuccessURL:    stripe.String(s.frontURL + "/checkout/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:     stripe.String(s.frontURL + "/cart"),
	}
	params.AddMetadata("user_id", userID)
	params.AddMetadata("address_id", addressID)

	sess, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}

	zap.S().Infow("checkout session created",
		"session_id", sess.ID, "user_id", userID, "total", quote.Total)

	return &CheckoutSession{SessionID: sess.ID, URL: sess.URL, Quote: *quote}, nil
}

// RetrieveSession fetches a session back from Stripe for the verify
// fallback.
func (s *CheckoutService) RetrieveSession(sessionID string) (*stripe.CheckoutSession, error) {
	return session.Get(sessionID, nil)
}

func jpyLineItem(name string, amount int64) *stripe.CheckoutSessionLineItemParams {
	return &stripe.CheckoutSessionLineItemParams{
		PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
			Currency:   stripe.String(string(stripe.CurrencyJPY)),
			UnitAmount: stripe.Int64(amount),
			ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
				Name: stripe.String(name),
			},
		},
		Quantity: stripe.Int64(1),
	}
}
