package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Banner for the storefront top page, admin-managed.
type Banner struct {
	ID           string     `gorm:"type:char(36);primaryKey" json:"id"`
	Title        string     `gorm:"size:255" json:"title"`
	ImageURL     string     `gorm:"size:512" json:"image_url"`
	LinkURL      string     `gorm:"size:512" json:"link_url"`
	DisplayOrder int        `json:"display_order"`
	IsActive     bool       `gorm:"default:true" json:"is_active"`
	StartsAt     *time.Time `json:"starts_at,omitempty"`
	EndsAt       *time.Time `json:"ends_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (b *Banner) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

type BannerModel struct {
	db *gorm.DB
}

func NewBannerModel(db *gorm.DB) *BannerModel {
	return &BannerModel{db: db}
}

func (m *BannerModel) Create(b *Banner) error {
	return m.db.Create(b).Error
}

func (m *BannerModel) Update(b *Banner) error {
	res := m.db.Model(&Banner{}).Where("id = ?", b.ID).Updates(map[string]any{
		"title":         b.Title,
		"image_url":     b.ImageURL,
		"link_url":      b.LinkURL,
		"display_order": b.DisplayOrder,
		"is_active":     b.IsActive,
		"starts_at":     b.StartsAt,
		"ends_at":       b.EndsAt,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *BannerModel) Delete(id string) error {
	res := m.db.Where("id = ?", id).Delete(&Banner{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *BannerModel) FindByID(id string) (*Banner, error) {
	var b Banner
	err := m.db.Where("id = ?", id).First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (m *BannerModel) List() ([]Banner, error) {
	var banners []Banner
	err := m.db.Order("display_order, created_at DESC").Find(&banners).Error
	return banners, err
}

// ListActive filters by flag and optional display window.
func (m *BannerModel) ListActive(now time.Time) ([]Banner, error) {
	var banners []Banner
	err := m.db.Where("is_active = ?", true).
		Where("starts_at IS NULL OR starts_at <= ?", now).
		Where("ends_at IS NULL OR ends_at > ?", now).
		Order("display_order").
		Find(&banners).Error
	return banners, err
}
