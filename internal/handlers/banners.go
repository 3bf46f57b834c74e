package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AimHigh0322/fashion-EC-site-sub001/internal/models"
	"github.com/AimHigh0322/fashion-EC-site-sub001/internal/services"
)

type BannerHandler struct {
	banners *models.BannerModel
	images  *services.ImageStorage
}

func NewBannerHandler(banners *models.BannerModel, images *services.ImageStorage) *BannerHandler {
	return &BannerHandler{banners: banners, images: images}
}

// GET /api/banners — active banners in display order, for the top page.
func (h *BannerHandler) ListActive(c *gin.Context) {
	banners, err := h.banners.ListActive(time.Now())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, banners)
}

// GET /api/admin/banners
func (h *BannerHandler) AdminList(c *gin.Context) {
	banners, err := h.banners.List()
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, banners)
}

type bannerRequest struct {
	Title        string     `json:"title" binding:"required"`
	ImageURL     string     `json:"image_url" binding:"required"`
	LinkURL      string     `json:"link_url"`
	DisplayOrder int        `json:"display_order"`
	IsActive     bool       `json:"is_active"`
	StartsAt     *time.Time `json:"starts_at"`
	EndsAt       *time.Time `json:"ends_at"`
}

// POST /api/admin/banners
func (h *BannerHandler) AdminCreate(c *gin.Context) {
	var req bannerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "title and image_url are required")
		return
	}
	banner := &models.Banner{
		Title:        req.Title,
		ImageURL:     req.ImageURL,
		LinkURL:      req.LinkURL,
		DisplayOrder: req.DisplayOrder,
		IsActive:     req.IsActive,
		StartsAt:     req.StartsAt,
		EndsAt:       req.EndsAt,
	}
	if err := h.banners.Create(banner); err != nil {
		fail(c, err)
		return
	}
	created(c, banner)
}

// PUT /api/admin/banners/:id
func (h *BannerHandler) AdminUpdate(c *gin.Context) {
	banner, err := h.banners.FindByID(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	var req bannerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "title and image_url are required")
		return
	}
	banner.Title = req.Title
	banner.ImageURL = req.ImageURL
	banner.LinkURL = req.LinkURL
	banner.DisplayOrder = req.DisplayOrder
	banner.IsActive = req.IsActive
	banner.StartsAt = req.StartsAt
	banner.EndsAt = req.EndsAt
	if err := h.banners.Update(banner); err != nil {
		fail(c, err)
		return
	}
	ok(c, banner)
}

// POST /api/admin/banners/images — upload an image, return its URL for use
// in a subsequent create/update.
func (h *BannerHandler) AdminUploadImage(c *gin.Context) {
	if !h.images.Enabled() {
		fail(c, models.NewAppError("STORAGE_UNAVAILABLE", "image storage is not configured"))
		return
	}
	file, err := c.FormFile("image")
	if err != nil {
		badRequest(c, "multipart field 'image' is required")
		return
	}
	url, err := h.images.Upload(c.Request.Context(), "banners", file)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"url": url})
}

// DELETE /api/admin/banners/:id
func (h *BannerHandler) AdminDelete(c *gin.Context) {
	if err := h.banners.Delete(c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"deleted": true})
}
