package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"  // Value = percent off, 1..100
	DiscountTypeFixedPrice DiscountType = "fixed_price" // Value = sale price in yen
)

// Campaign is a discount rule with a validity window, linked to products via
// campaign_products. Expired campaigns are deactivated by the hourly sweep.
type Campaign struct {
	ID           string       `gorm:"type:char(36);primaryKey" json:"id"`
	Name         string       `gorm:"size:255" json:"name"`
	DiscountType DiscountType `gorm:"size:16" json:"discount_type"`
	Value        int64        `json:"value"`
	FreeShipping bool         `json:"free_shipping"`
	StartsAt     time.Time    `json:"starts_at"`
	EndsAt       time.Time    `json:"ends_at"`
	IsActive     bool         `gorm:"index;default:true" json:"is_active"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`

	ProductIDs []string `gorm:"-" json:"product_ids,omitempty"`
}

func (c *Campaign) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// InWindow reports whether the campaign applies at t.
func (c *Campaign) InWindow(t time.Time) bool {
	return c.IsActive && !t.Before(c.StartsAt) && t.Before(c.EndsAt)
}

type CampaignProduct struct {
	CampaignID string `gorm:"type:char(36);primaryKey"`
	ProductID  string `gorm:"type:char(36);primaryKey;index"`
}

type CampaignModel struct {
	db *gorm.DB
}

func NewCampaignModel(db *gorm.DB) *CampaignModel {
	return &CampaignModel{db: db}
}

func (m *CampaignModel) Create(c *Campaign) error {
	if c.DiscountType != DiscountTypePercentage && c.DiscountType != DiscountTypeFixedPrice {
		return NewAppError("INVALID_INPUT", "discount_type must be percentage or fixed_price")
	}
	if c.DiscountType == DiscountTypePercentage && (c.Value < 1 || c.Value > 100) {
		return NewAppError("INVALID_INPUT", "percentage value must be between 1 and 100")
	}
	if c.DiscountType == DiscountTypeFixedPrice && c.Value < 0 {
		return NewAppError("INVALID_INPUT", "fixed price cannot be negative")
	}
	if !c.EndsAt.After(c.StartsAt) {
		return NewAppError("INVALID_INPUT", "ends_at must be after starts_at")
	}
	return m.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(c).Error; err != nil {
			return err
		}
		return replaceCampaignProducts(tx, c.ID, c.ProductIDs)
	})
}

func (m *CampaignModel) Update(c *Campaign) error {
	return m.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Campaign{}).Where("id = ?", c.ID).Updates(map[string]any{
			"name":          c.Name,
			"discount_type": c.DiscountType,
			"value":         c.Value,
			"free_shipping": c.FreeShipping,
			"starts_at":     c.StartsAt,
			"ends_at":       c.EndsAt,
			"is_active":     c.IsActive,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return replaceCampaignProducts(tx, c.ID, c.ProductIDs)
	})
}

func replaceCampaignProducts(tx *gorm.DB, campaignID string, productIDs []string) error {
	if err := tx.Where("campaign_id = ?", campaignID).Delete(&CampaignProduct{}).Error; err != nil {
		return err
	}
	for _, pid := range productIDs {
		if err := tx.Create(&CampaignProduct{CampaignID: campaignID, ProductID: pid}).Error; err != nil {
			return err
		}
	}
	return nil
}

func (m *CampaignModel) Delete(id string) error {
	return m.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("campaign_id = ?", id).Delete(&CampaignProduct{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&Campaign{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (m *CampaignModel) FindByID(id string) (*Campaign, error) {
	var c Campaign
	err := m.db.Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var links []CampaignProduct
	if err := m.db.Where("campaign_id = ?", id).Find(&links).Error; err != nil {
		return nil, err
	}
	for _, l := range links {
		c.ProductIDs = append(c.ProductIDs, l.ProductID)
	}
	return &c, nil
}

func (m *CampaignModel) List(activeOnly bool, page, perPage int) ([]Campaign, int64, error) {
	q := m.db.Model(&Campaign{})
	if activeOnly {
		now := time.Now()
		q = q.Where("is_active = ? AND starts_at <= ? AND ends_at > ?", true, now, now)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var campaigns []Campaign
	err := q.Order("starts_at DESC").Scopes(Paginate(page, perPage)).Find(&campaigns).Error
	return campaigns, total, err
}

// ActiveForProducts returns date-valid active campaigns per product id for
// the discount service. Ordered by campaign id so overlap resolution stays
// deterministic.
func (m *CampaignModel) ActiveForProducts(productIDs []string, now time.Time) (map[string][]Campaign, error) {
	if len(productIDs) == 0 {
		return map[string][]Campaign{}, nil
	}
	type row struct {
		Campaign
		ProductID string
	}
	var rows []row
	err := m.db.Model(&Campaign{}).
		Select("campaigns.*, campaign_products.product_id AS product_id").
		Joins("JOIN campaign_products ON campaign_products.campaign_id = campaigns.id").
		Where("campaign_products.product_id IN ?", productIDs).
		Where("campaigns.is_active = ? AND campaigns.starts_at <= ? AND campaigns.ends_at > ?", true, now, now).
		Order("campaigns.id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string][]Campaign)
	for _, r := range rows {
		out[r.ProductID] = append(out[r.ProductID], r.Campaign)
	}
	return out, nil
}

// DeactivateExpired is the periodic sweep: any active campaign whose window
// has passed gets is_active=false. Returns the number of rows flipped.
func (m *CampaignModel) DeactivateExpired(now time.Time) (int64, error) {
	res := m.db.Model(&Campaign{}).
		Where("is_active = ? AND ends_at <= ?", true, now).
		Update("is_active", false)
	return res.RowsAffected, res.Error
}
