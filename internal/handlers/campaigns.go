package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AimHigh0322/fashion-EC-site-sub001/internal/models"
)

type CampaignHandler struct {
	campaigns *models.CampaignModel
}

func NewCampaignHandler(campaigns *models.CampaignModel) *CampaignHandler {
	return &CampaignHandler{campaigns: campaigns}
}

// GET /api/campaigns — currently running campaigns, for storefront display.
func (h *CampaignHandler) ListActive(c *gin.Context) {
	page, perPage := pagination(c)
	campaigns, total, err := h.campaigns.List(true, page, perPage)
	if err != nil {
		fail(c, err)
		return
	}
	paged(c, campaigns, total, page, perPage)
}

// GET /api/admin/campaigns — all campaigns including expired ones.
func (h *CampaignHandler) AdminList(c *gin.Context) {
	page, perPage := pagination(c)
	campaigns, total, err := h.campaigns.List(false, page, perPage)
	if err != nil {
		fail(c, err)
		return
	}
	paged(c, campaigns, total, page, perPage)
}

// GET /api/admin/campaigns/:id
func (h *CampaignHandler) AdminGet(c *gin.Context) {
	campaign, err := h.campaigns.FindByID(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, campaign)
}

type campaignRequest struct {
	Name         string              `json:"name" binding:"required"`
	DiscountType models.DiscountType `json:"discount_type" binding:"required"`
	Value        int64               `json:"value" binding:"required,min=1"`
	FreeShipping bool                `json:"free_shipping"`
	StartsAt     time.Time           `json:"starts_at" binding:"required"`
	EndsAt       time.Time           `json:"ends_at" binding:"required"`
	ProductIDs   []string            `json:"product_ids" binding:"required,min=1"`
}

// POST /api/admin/campaigns
func (h *CampaignHandler) AdminCreate(c *gin.Context) {
	var req campaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "name, discount_type, value, starts_at, ends_at and product_ids are required")
		return
	}
	campaign := &models.Campaign{
		Name:         req.Name,
		DiscountType: req.DiscountType,
		Value:        req.Value,
		FreeShipping: req.FreeShipping,
		StartsAt:     req.StartsAt,
		EndsAt:       req.EndsAt,
		IsActive:     true,
		ProductIDs:   req.ProductIDs,
	}
	if err := h.campaigns.Create(campaign); err != nil {
		fail(c, err)
		return
	}
	zap.S().Infow("campaign created", "campaign_id", campaign.ID, "name", campaign.Name)
	created(c, campaign)
}

// PUT /api/admin/campaigns/:id
func (h *CampaignHandler) AdminUpdate(c *gin.Context) {
	campaign, err := h.campaigns.FindByID(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	var req campaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "name, discount_type, value, starts_at, ends_at and product_ids are required")
		return
	}
	campaign.Name = req.Name
	campaign.DiscountType = req.DiscountType
	campaign.Value = req.Value
	campaign.FreeShipping = req.FreeShipping
	campaign.StartsAt = req.StartsAt
	campaign.EndsAt = req.EndsAt
	campaign.ProductIDs = req.ProductIDs
	if err := h.campaigns.Update(campaign); err != nil {
		fail(c, err)
		return
	}
	ok(c, campaign)
}

// DELETE /api/admin/campaigns/:id — deactivates; orders already priced with
// the campaign keep their snapshots.
func (h *CampaignHandler) AdminDelete(c *gin.Context) {
	if err := h.campaigns.Delete(c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"deleted": true})
}
