package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AimHigh0322/fashion-EC-site-sub001/internal/models"
)

type UserHandler struct {
	users *models.UserModel
}

func NewUserHandler(users *models.UserModel) *UserHandler {
	return &UserHandler{users: users}
}

// GET /api/admin/users
func (h *UserHandler) AdminList(c *gin.Context) {
	page, perPage := pagination(c)
	users, total, err := h.users.List(page, perPage)
	if err != nil {
		fail(c, err)
		return
	}
	paged(c, users, total, page, perPage)
}

// PUT /api/admin/users/:id/role
func (h *UserHandler) AdminSetRole(c *gin.Context) {
	var req struct {
		Role models.Role `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "role is required")
		return
	}
	if err := h.users.SetRole(c.Param("id"), req.Role); err != nil {
		fail(c, err)
		return
	}
	zap.S().Infow("user role changed", "user_id", c.Param("id"), "role", req.Role)
	ok(c, gin.H{"role": req.Role})
}

// PUT /api/admin/users/:id/active
func (h *UserHandler) AdminSetActive(c *gin.Context) {
	var req struct {
		Active *bool `json:"active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "active is required")
		return
	}
	if err := h.users.SetActive(c.Param("id"), *req.Active); err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"active": *req.Active})
}
