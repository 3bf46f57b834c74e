package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Favorite struct {
	ID        string    `gorm:"type:char(36);primaryKey" json:"id"`
	UserID    string    `gorm:"type:char(36);uniqueIndex:idx_fav_user_product" json:"user_id"`
	ProductID string    `gorm:"type:char(36);uniqueIndex:idx_fav_user_product" json:"product_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (f *Favorite) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

type FavoriteModel struct {
	db *gorm.DB
}

func NewFavoriteModel(db *gorm.DB) *FavoriteModel {
	return &FavoriteModel{db: db}
}

// Add is idempotent: favoriting twice is not an error.
func (m *FavoriteModel) Add(userID, productID string) error {
	err := m.db.Create(&Favorite{UserID: userID, ProductID: productID}).Error
	if err != nil && !IsDuplicateKey(err) {
		return err
	}
	return nil
}

func (m *FavoriteModel) Remove(userID, productID string) error {
	res := m.db.Where("user_id = ? AND product_id = ?", userID, productID).Delete(&Favorite{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListProducts returns the favorited products still visible in the catalog.
func (m *FavoriteModel) ListProducts(userID string) ([]Product, error) {
	var products []Product
	err := m.db.Model(&Product{}).
		Joins("JOIN favorites ON favorites.product_id = products.id").
		Where("favorites.user_id = ? AND products.status <> ?", userID, ProductStatusDiscontinued).
		Order("favorites.created_at DESC").
		Find(&products).Error
	return products, err
}
