package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/AimHigh0322/fashion-EC-site-sub001/internal/models"
)

type AddressHandler struct {
	addresses *models.AddressModel
}

func NewAddressHandler(addresses *models.AddressModel) *AddressHandler {
	return &AddressHandler{addresses: addresses}
}

// GET /api/addresses
func (h *AddressHandler) List(c *gin.Context) {
	addresses, err := h.addresses.ListByUser(c.GetString("user_id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, addresses)
}

type addressRequest struct {
	Name       string `json:"name" binding:"required"`
	PostalCode string `json:"postal_code" binding:"required"`
	Prefecture string `json:"prefecture" binding:"required"`
	City       string `json:"city" binding:"required"`
	Line1      string `json:"line1" binding:"required"`
	Line2      string `json:"line2"`
	Phone      string `json:"phone"`
	IsDefault  bool   `json:"is_default"`
}

// POST /api/addresses
func (h *AddressHandler) Create(c *gin.Context) {
	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "name, postal_code, prefecture, city and line1 are required")
		return
	}
	addr := &models.ShippingAddress{
		UserID:     c.GetString("user_id"),
		Name:       req.Name,
		PostalCode: req.PostalCode,
		Prefecture: req.Prefecture,
		City:       req.City,
		Line1:      req.Line1,
		Line2:      req.Line2,
		Phone:      req.Phone,
		IsDefault:  req.IsDefault,
	}
	if err := h.addresses.Create(addr); err != nil {
		fail(c, err)
		return
	}
	created(c, addr)
}

// PUT /api/addresses/:id
func (h *AddressHandler) Update(c *gin.Context) {
	addr, err := h.addresses.FindForUser(c.Param("id"), c.GetString("user_id"))
	if err != nil {
		fail(c, err)
		return
	}
	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "name, postal_code, prefecture, city and line1 are required")
		return
	}
	addr.Name = req.Name
	addr.PostalCode = req.PostalCode
	addr.Prefecture = req.Prefecture
	addr.City = req.City
	addr.Line1 = req.Line1
	addr.Line2 = req.Line2
	addr.Phone = req.Phone
	addr.IsDefault = req.IsDefault
	if err := h.addresses.Update(addr); err != nil {
		fail(c, err)
		return
	}
	ok(c, addr)
}

// DELETE /api/addresses/:id
func (h *AddressHandler) Delete(c *gin.Context) {
	if err := h.addresses.Delete(c.Param("id"), c.GetString("user_id")); err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"deleted": true})
}
