package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AimHigh0322/fashion-EC-site-sub001/internal/models"
	"github.com/AimHigh0322/fashion-EC-site-sub001/internal/utils"
)

type AuthHandler struct {
	users     *models.UserModel
	jwtSecret string
}

func NewAuthHandler(users *models.UserModel, jwtSecret string) *AuthHandler {
	return &AuthHandler{users: users, jwtSecret: jwtSecret}
}

// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
		Name     string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "email, password (min 8 chars) and name are required")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	user := &models.User{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		Role:         models.RoleCustomer,
		IsActive:     true,
	}
	if err := h.users.Create(user); err != nil {
		fail(c, err)
		return
	}

	zap.S().Infow("user registered", "user_id", user.ID, "email", user.Email)
	token, err := utils.GenerateJWT(h.jwtSecret, user)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, gin.H{"token": token, "user": user})
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "email and password are required")
		return
	}

	user, err := h.users.FindByEmail(req.Email)
	if err != nil {
		// same response as a wrong password, no account probing
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid credentials"})
		return
	}
	if !user.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "account is deactivated"})
		return
	}
	match, err := utils.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil || !match {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid credentials"})
		return
	}

	token, err := utils.GenerateJWT(h.jwtSecret, user)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"token": token, "user": user})
}

// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.users.FindByID(c.GetString("user_id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, user)
}
