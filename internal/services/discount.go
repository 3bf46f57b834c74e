package services

import (
	"github.com/AimHigh0322/fashion-EC-site-sub001/internal/models"
)

// PricedLine is one cart line after campaign application. UnitPrice is the
// live product price, DiscountedPrice what the customer actually pays.
type PricedLine struct {
	ProductID       string `json:"product_id"`
	ProductName     string `json:"product_name"`
	SKU             string `json:"sku"`
	UnitPrice       int64  `json:"unit_price"`
	DiscountedPrice int64  `json:"discounted_price"`
	Quantity        int    `json:"quantity"`
	CampaignID      string `json:"campaign_id,omitempty"`
	CampaignName    string `json:"campaign_name,omitempty"`
}

type DiscountResult struct {
	Lines         []PricedLine `json:"lines"`
	Subtotal      int64        `json:"subtotal"`       // before discounts
	DiscountTotal int64        `json:"discount_total"`
	FreeShipping  bool         `json:"free_shipping"`
}

// discountedPrice computes the unit price a single campaign yields.
// Percentage discounts round down; a fixed sale price never exceeds the
// base price.
func discountedPrice(price int64, c models.Campaign) int64 {
	switch c.DiscountType {
	case models.DiscountTypePercentage:
		return price * (100 - c.Value) / 100
	case models.DiscountTypeFixedPrice:
		if c.Value < price {
			return c.Value
		}
		return price
	}
	return price
}

// ApplyCampaigns prices a cart against the active campaigns per product.
// When several campaigns overlap on one product, the one producing the
// lowest unit price wins; equal prices fall back to the smallest campaign
// id so the result is deterministic. Read-only: nothing is persisted.
func ApplyCampaigns(lines []models.CartLine, campaigns map[string][]models.Campaign) DiscountResult {
	var res DiscountResult
	for _, line := range lines {
		pl := PricedLine{
			ProductID:       line.Product.ID,
			ProductName:     line.Product.Name,
			SKU:             line.Product.SKU,
			UnitPrice:       line.Product.Price,
			DiscountedPrice: line.Product.Price,
			Quantity:        line.CartItem.Quantity,
		}
		for _, c := range campaigns[line.Product.ID] {
			p := discountedPrice(line.Product.Price, c)
			if p < pl.DiscountedPrice || (p == pl.DiscountedPrice && pl.CampaignID != "" && c.ID < pl.CampaignID) {
				pl.DiscountedPrice = p
				pl.CampaignID = c.ID
				pl.CampaignName = c.Name
			}
			if c.FreeShipping {
				res.FreeShipping = true
			}
		}
		qty := int64(pl.Quantity)
		res.Subtotal += pl.UnitPrice * qty
		res.DiscountTotal += (pl.UnitPrice - pl.DiscountedPrice) * qty
		res.Lines = append(res.Lines, pl)
	}
	return res
}
