package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/AimHigh0322/fashion-EC-site-sub001/internal/models"
)

type CategoryHandler struct {
	categories *models.CategoryModel
}

func NewCategoryHandler(categories *models.CategoryModel) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// GET /api/categories
func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.categories.List()
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, categories)
}

// POST /api/admin/categories
func (h *CategoryHandler) AdminCreate(c *gin.Context) {
	var req struct {
		Name         string  `json:"name" binding:"required"`
		Slug         string  `json:"slug" binding:"required"`
		ParentID     *string `json:"parent_id"`
		DisplayOrder int     `json:"display_order"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "name and slug are required")
		return
	}
	category := &models.Category{
		Name:         req.Name,
		Slug:         req.Slug,
		ParentID:     req.ParentID,
		DisplayOrder: req.DisplayOrder,
	}
	if err := h.categories.Create(category); err != nil {
		fail(c, err)
		return
	}
	created(c, category)
}

// PUT /api/admin/categories/:id
func (h *CategoryHandler) AdminUpdate(c *gin.Context) {
	category, err := h.categories.FindByID(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	var req struct {
		Name         *string `json:"name"`
		Slug         *string `json:"slug"`
		ParentID     *string `json:"parent_id"`
		DisplayOrder *int    `json:"display_order"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.Slug != nil {
		category.Slug = *req.Slug
	}
	if req.ParentID != nil {
		category.ParentID = req.ParentID
	}
	if req.DisplayOrder != nil {
		category.DisplayOrder = *req.DisplayOrder
	}
	if err := h.categories.Update(category); err != nil {
		fail(c, err)
		return
	}
	ok(c, category)
}

// DELETE /api/admin/categories/:id
func (h *CategoryHandler) AdminDelete(c *gin.Context) {
	if err := h.categories.Delete(c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"deleted": true})
}
