package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Review struct {
	ID        string    `gorm:"type:char(36);primaryKey" json:"id"`
	ProductID string    `gorm:"type:char(36);uniqueIndex:idx_review_product_user" json:"product_id"`
	UserID    string    `gorm:"type:char(36);uniqueIndex:idx_review_product_user" json:"user_id"`
	Rating    int       `json:"rating"`
	Title     string    `gorm:"size:255" json:"title"`
	Body      string    `gorm:"type:text" json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// ReviewSummary is the aggregate shown on product detail.
type ReviewSummary struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

type ReviewModel struct {
	db *gorm.DB
}

func NewReviewModel(db *gorm.DB) *ReviewModel {
	return &ReviewModel{db: db}
}

func (m *ReviewModel) Create(r *Review) error {
	if r.Rating < 1 || r.Rating > 5 {
		return NewAppError("INVALID_INPUT", "rating must be between 1 and 5")
	}
	if err := m.db.Create(r).Error; err != nil {
		if IsDuplicateKey(err) {
			return ErrDuplicateReview
		}
		return err
	}
	return nil
}

func (m *ReviewModel) Update(r *Review) error {
	if r.Rating < 1 || r.Rating > 5 {
		return NewAppError("INVALID_INPUT", "rating must be between 1 and 5")
	}
	res := m.db.Model(&Review{}).
		Where("id = ? AND user_id = ?", r.ID, r.UserID).
		Updates(map[string]any{"rating": r.Rating, "title": r.Title, "body": r.Body})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *ReviewModel) Delete(id, userID string) error {
	res := m.db.Where("id = ? AND user_id = ?", id, userID).Delete(&Review{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *ReviewModel) ListByProduct(productID string, page, perPage int) ([]Review, int64, error) {
	var total int64
	if err := m.db.Model(&Review{}).Where("product_id = ?", productID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var reviews []Review
	err := m.db.Where("product_id = ?", productID).
		Order("created_at DESC").
		Scopes(Paginate(page, perPage)).
		Find(&reviews).Error
	return reviews, total, err
}

func (m *ReviewModel) Summary(productID string) (*ReviewSummary, error) {
	var s ReviewSummary
	err := m.db.Model(&Review{}).
		Where("product_id = ?", productID).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Scan(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (m *ReviewModel) FindByID(id string) (*Review, error) {
	var r Review
	err := m.db.Where("id = ?", id).First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}
