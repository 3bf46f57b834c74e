package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AimHigh0322/fashion-EC-site-sub001/internal/models"
	"github.com/AimHigh0322/fashion-EC-site-sub001/internal/services"
)

type CartHandler struct {
	carts     *models.CartModel
	products  *models.ProductModel
	campaigns *models.CampaignModel
}

func NewCartHandler(carts *models.CartModel, products *models.ProductModel, campaigns *models.CampaignModel) *CartHandler {
	return &CartHandler{carts: carts, products: products, campaigns: campaigns}
}

// GET /api/cart — the cart priced against the campaigns active right now.
// Shipping and tax are quoted at checkout when the address is known.
func (h *CartHandler) Get(c *gin.Context) {
	lines, err := h.carts.Lines(c.GetString("user_id"))
	if err != nil {
		fail(c, err)
		return
	}
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.Product.ID)
	}
	active, err := h.campaigns.ActiveForProducts(ids, time.Now())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, services.ApplyCampaigns(lines, active))
}

// POST /api/cart/items
func (h *CartHandler) Add(c *gin.Context) {
	var req struct {
		ProductID string `json:"product_id" binding:"required"`
		Quantity  int    `json:"quantity" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "product_id and a positive quantity are required")
		return
	}

	product, err := h.products.FindByID(req.ProductID)
	if err != nil {
		fail(c, err)
		return
	}
	if product.Status != models.ProductStatusActive {
		fail(c, models.ErrProductInactive)
		return
	}
	if product.StockQuantity < req.Quantity {
		fail(c, models.ErrStockShortage)
		return
	}

	item, err := h.carts.Add(c.GetString("user_id"), req.ProductID, req.Quantity)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, item)
}

// PUT /api/cart/items/:productId
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	var req struct {
		Quantity int `json:"quantity" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "a positive quantity is required")
		return
	}
	item, err := h.carts.UpdateQuantity(c.GetString("user_id"), c.Param("productId"), req.Quantity)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, item)
}

// DELETE /api/cart/items/:productId
func (h *CartHandler) Remove(c *gin.Context) {
	if err := h.carts.Remove(c.GetString("user_id"), c.Param("productId")); err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"removed": true})
}

// DELETE /api/cart
func (h *CartHandler) Clear(c *gin.Context) {
	if err := h.carts.Clear(c.GetString("user_id")); err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"cleared": true})
}
