package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AimHigh0322/fashion-EC-site-sub001/internal/models"
)

func cartLine(productID string, price int64, qty int) models.CartLine {
	return models.CartLine{
		CartItem: models.CartItem{ProductID: productID, Quantity: qty},
		Product:  models.Product{ID: productID, Name: productID, Price: price},
	}
}

func TestApplyCampaignsOverlap(t *testing.T) {
	lines := []models.CartLine{cartLine("p1", 2000, 1)}

	t.Run("lowest price wins", func(t *testing.T) {
		campaigns := map[string][]models.Campaign{
			"p1": {
				{ID: "a", Name: "10% off", DiscountType: models.DiscountTypePercentage, Value: 10},
				{ID: "b", Name: "half price", DiscountType: models.DiscountTypeFixedPrice, Value: 1000},
			},
		}
		res := ApplyCampaigns(lines, campaigns)
		assert.Equal(t, int64(1000), res.Lines[0].DiscountedPrice)
		assert.Equal(t, "b", res.Lines[0].CampaignID)
	})

	t.Run("tie breaks on smaller campaign id", func(t *testing.T) {
		campaigns := map[string][]models.Campaign{
			"p1": {
				{ID: "b", Name: "late", DiscountType: models.DiscountTypeFixedPrice, Value: 1500},
				{ID: "a", Name: "early", DiscountType: models.DiscountTypeFixedPrice, Value: 1500},
			},
		}
		res := ApplyCampaigns(lines, campaigns)
		assert.Equal(t, int64(1500), res.Lines[0].DiscountedPrice)
		assert.Equal(t, "a", res.Lines[0].CampaignID)
	})

	t.Run("free shipping propagates even when another campaign wins the price", func(t *testing.T) {
		campaigns := map[string][]models.Campaign{
			"p1": {
				{ID: "a", DiscountType: models.DiscountTypeFixedPrice, Value: 500},
				{ID: "b", DiscountType: models.DiscountTypePercentage, Value: 5, FreeShipping: true},
			},
		}
		res := ApplyCampaigns(lines, campaigns)
		assert.Equal(t, int64(500), res.Lines[0].DiscountedPrice)
		assert.Equal(t, "a", res.Lines[0].CampaignID)
		assert.True(t, res.FreeShipping)
	})

	t.Run("no campaigns leaves prices untouched", func(t *testing.T) {
		res := ApplyCampaigns(lines, map[string][]models.Campaign{})
		assert.Equal(t, int64(2000), res.Lines[0].DiscountedPrice)
		assert.Equal(t, int64(0), res.DiscountTotal)
		assert.Empty(t, res.Lines[0].CampaignID)
	})

	t.Run("discount applies per line quantity", func(t *testing.T) {
		many := []models.CartLine{cartLine("p1", 2000, 3)}
		campaigns := map[string][]models.Campaign{
			"p1": {{ID: "a", DiscountType: models.DiscountTypePercentage, Value: 25}},
		}
		res := ApplyCampaigns(many, campaigns)
		assert.Equal(t, int64(6000), res.Subtotal)
		assert.Equal(t, int64(1500), res.DiscountTotal)
	})
}
