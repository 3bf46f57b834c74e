package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category struct {
	ID           string    `gorm:"type:char(36);primaryKey" json:"id"`
	Name         string    `gorm:"size:255" json:"name"`
	Slug         string    `gorm:"size:255;uniqueIndex" json:"slug"`
	ParentID     *string   `gorm:"type:char(36);index" json:"parent_id,omitempty"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

type CategoryModel struct {
	db *gorm.DB
}

func NewCategoryModel(db *gorm.DB) *CategoryModel {
	return &CategoryModel{db: db}
}

func (m *CategoryModel) Create(c *Category) error {
	if err := m.db.Create(c).Error; err != nil {
		if IsDuplicateKey(err) {
			return NewAppError("DUPLICATE_SLUG", "category slug is already in use")
		}
		return err
	}
	return nil
}

func (m *CategoryModel) FindByID(id string) (*Category, error) {
	var c Category
	err := m.db.Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (m *CategoryModel) List() ([]Category, error) {
	var categories []Category
	err := m.db.Order("display_order, name").Find(&categories).Error
	return categories, err
}

func (m *CategoryModel) Update(c *Category) error {
	res := m.db.Model(&Category{}).Where("id = ?", c.ID).Updates(map[string]any{
		"name":          c.Name,
		"slug":          c.Slug,
		"parent_id":     c.ParentID,
		"display_order": c.DisplayOrder,
	})
	if res.Error != nil {
		if IsDuplicateKey(res.Error) {
			return NewAppError("DUPLICATE_SLUG", "category slug is already in use")
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete refuses when products still reference the category.
func (m *CategoryModel) Delete(id string) error {
	var count int64
	if err := m.db.Model(&Product{}).Where("category_id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return NewAppError("CATEGORY_IN_USE", "category still has products")
	}
	res := m.db.Where("id = ?", id).Delete(&Category{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
