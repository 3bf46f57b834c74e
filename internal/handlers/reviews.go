package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/AimHigh0322/fashion-EC-site-sub001/internal/models"
)

type ReviewHandler struct {
	reviews  *models.ReviewModel
	products *models.ProductModel
}

func NewReviewHandler(reviews *models.ReviewModel, products *models.ProductModel) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, products: products}
}

// GET /api/products/:id/reviews
func (h *ReviewHandler) ListByProduct(c *gin.Context) {
	page, perPage := pagination(c)
	reviews, total, err := h.reviews.ListByProduct(c.Param("id"), page, perPage)
	if err != nil {
		fail(c, err)
		return
	}
	paged(c, reviews, total, page, perPage)
}

// POST /api/products/:id/reviews — one review per user per product.
func (h *ReviewHandler) Create(c *gin.Context) {
	var req struct {
		Rating int    `json:"rating" binding:"required,min=1,max=5"`
		Title  string `json:"title"`
		Body   string `json:"body"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "rating must be between 1 and 5")
		return
	}

	productID := c.Param("id")
	if _, err := h.products.FindByID(productID); err != nil {
		fail(c, err)
		return
	}

	review := &models.Review{
		ProductID: productID,
		UserID:    c.GetString("user_id"),
		Rating:    req.Rating,
		Title:     req.Title,
		Body:      req.Body,
	}
	if err := h.reviews.Create(review); err != nil {
		fail(c, err)
		return
	}
	created(c, review)
}

// PUT /api/reviews/:id
func (h *ReviewHandler) Update(c *gin.Context) {
	review, err := h.reviews.FindByID(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	if review.UserID != c.GetString("user_id") {
		fail(c, models.ErrForbidden)
		return
	}

	var req struct {
		Rating int    `json:"rating" binding:"required,min=1,max=5"`
		Title  string `json:"title"`
		Body   string `json:"body"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "rating must be between 1 and 5")
		return
	}
	review.Rating = req.Rating
	review.Title = req.Title
	review.Body = req.Body
	if err := h.reviews.Update(review); err != nil {
		fail(c, err)
		return
	}
	ok(c, review)
}

// DELETE /api/reviews/:id
func (h *ReviewHandler) Delete(c *gin.Context) {
	if err := h.reviews.Delete(c.Param("id"), c.GetString("user_id")); err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"deleted": true})
}
