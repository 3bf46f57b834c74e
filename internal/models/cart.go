package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CartItem is one mutable row per (user, product). First add creates it,
// later adds bump the quantity in place, checkout completion deletes it.
type CartItem struct {
	ID        string    `gorm:"type:char(36);primaryKey" json:"id"`
	UserID    string    `gorm:"type:char(36);uniqueIndex:idx_cart_user_product" json:"user_id"`
	ProductID string    `gorm:"type:char(36);uniqueIndex:idx_cart_user_product" json:"product_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (i *CartItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// CartLine joins a cart row with the current product state; checkout and the
// cart view both consume this shape.
type CartLine struct {
	CartItem CartItem `json:"cart_item"`
	Product  Product  `json:"product"`
}

type CartModel struct {
	db *gorm.DB
}

func NewCartModel(db *gorm.DB) *CartModel {
	return &CartModel{db: db}
}

// Add upserts the (user, product) row.
func (m *CartModel) Add(userID, productID string, qty int) (*CartItem, error) {
	if qty <= 0 {
		return nil, NewAppError("INVALID_INPUT", "quantity must be positive")
	}
	var item CartItem
	err := m.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND product_id = ?", userID, productID).First(&item).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			item = CartItem{UserID: userID, ProductID: productID, Quantity: qty}
			return tx.Create(&item).Error
		case err != nil:
			return err
		default:
			item.Quantity += qty
			return tx.Model(&CartItem{}).Where("id = ?", item.ID).
				Update("quantity", item.Quantity).Error
		}
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (m *CartModel) UpdateQuantity(userID, productID string, qty int) (*CartItem, error) {
	if qty <= 0 {
		return nil, NewAppError("INVALID_INPUT", "quantity must be positive")
	}
	var item CartItem
	err := m.db.Where("user_id = ? AND product_id = ?", userID, productID).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	item.Quantity = qty
	if err := m.db.Model(&CartItem{}).Where("id = ?", item.ID).Update("quantity", qty).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (m *CartModel) Remove(userID, productID string) error {
	res := m.db.Where("user_id = ? AND product_id = ?", userID, productID).Delete(&CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *CartModel) Clear(userID string) error {
	return m.db.Where("user_id = ?", userID).Delete(&CartItem{}).Error
}

// ClearTx removes the cart inside the materialization transaction.
func ClearCartTx(tx *gorm.DB, userID string) error {
	return tx.Where("user_id = ?", userID).Delete(&CartItem{}).Error
}

// Lines returns the user's cart joined with live product rows, skipping
// products that have been discontinued since they were added.
func (m *CartModel) Lines(userID string) ([]CartLine, error) {
	var items []CartItem
	if err := m.db.Where("user_id = ?", userID).Order("created_at").Find(&items).Error; err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	var products []Product
	if err := m.db.Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	byID := make(map[string]Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	lines := make([]CartLine, 0, len(items))
	for _, it := range items {
		p, ok := byID[it.ProductID]
		if !ok || p.Status == ProductStatusDiscontinued {
			continue
		}
		lines = append(lines, CartLine{CartItem: it, Product: p})
	}
	return lines, nil
}
