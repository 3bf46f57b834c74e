package services

// All amounts are whole yen.

const (
	// Orders at or above this discounted subtotal ship free.
	FreeShippingThreshold int64 = 5000

	defaultShippingFee int64 = 500
)

// Flat shipping fee per prefecture; anything not listed pays the default.
var shippingFeeByPrefecture = map[string]int64{
	"北海道": 900,
	"沖縄県": 1200,
}

// Tax is 10% consumption tax on the discounted subtotal, rounded down.
func Tax(discountedSubtotal int64) int64 {
	if discountedSubtotal <= 0 {
		return 0
	}
	return discountedSubtotal / 10
}

// ShippingFee returns 0 above the free threshold or when a free-shipping
// campaign applies, otherwise the prefecture's flat rate.
func ShippingFee(prefecture string, discountedSubtotal int64, freeShipping bool) int64 {
	if freeShipping || discountedSubtotal >= FreeShippingThreshold {
		return 0
	}
	if fee, ok := shippingFeeByPrefecture[prefecture]; ok {
		return fee
	}
	return defaultShippingFee
}

// Quote is the full checkout price breakdown.
type Quote struct {
	Lines         []PricedLine `json:"lines"`
	Subtotal      int64        `json:"subtotal"`
	DiscountTotal int64        `json:"discount_total"`
	Tax           int64        `json:"tax"`
	ShippingFee   int64        `json:"shipping_fee"`
	Total         int64        `json:"total"`
	FreeShipping  bool         `json:"free_shipping"`
}

// BuildQuote combines the campaign result with tax and shipping:
// total = subtotal − discount + tax + shipping.
func BuildQuote(d DiscountResult, prefecture string) Quote {
	discounted := d.Subtotal - d.DiscountTotal
	tax := Tax(discounted)
	shipping := ShippingFee(prefecture, discounted, d.FreeShipping)
	return Quote{
		Lines:         d.Lines,
		Subtotal:      d.Subtotal,
		DiscountTotal: d.DiscountTotal,
		Tax:           tax,
		ShippingFee:   shipping,
		Total:         discounted + tax + shipping,
		FreeShipping:  d.FreeShipping || shipping == 0,
	}
}
