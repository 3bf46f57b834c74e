package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/AimHigh0322/fashion-EC-site-sub001/internal/models"
)

type FavoriteHandler struct {
	favorites *models.FavoriteModel
	products  *models.ProductModel
}

func NewFavoriteHandler(favorites *models.FavoriteModel, products *models.ProductModel) *FavoriteHandler {
	return &FavoriteHandler{favorites: favorites, products: products}
}

// GET /api/favorites
func (h *FavoriteHandler) List(c *gin.Context) {
	products, err := h.favorites.ListProducts(c.GetString("user_id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, productViews(products))
}

// POST /api/favorites/:productId — idempotent.
func (h *FavoriteHandler) Add(c *gin.Context) {
	productID := c.Param("productId")
	if _, err := h.products.FindByID(productID); err != nil {
		fail(c, err)
		return
	}
	if err := h.favorites.Add(c.GetString("user_id"), productID); err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"favorited": true})
}

// DELETE /api/favorites/:productId
func (h *FavoriteHandler) Remove(c *gin.Context) {
	if err := h.favorites.Remove(c.GetString("user_id"), c.Param("productId")); err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"favorited": false})
}
