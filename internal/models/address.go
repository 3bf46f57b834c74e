package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ShippingAddress. Prefecture feeds the shipping fee table at checkout.
type ShippingAddress struct {
	ID         string    `gorm:"type:char(36);primaryKey" json:"id"`
	UserID     string    `gorm:"type:char(36);index" json:"user_id"`
	Name       string    `gorm:"size:255" json:"name"`
	PostalCode string    `gorm:"size:8" json:"postal_code"`
	Prefecture string    `gorm:"size:16" json:"prefecture"`
	City       string    `gorm:"size:255" json:"city"`
	Line1      string    `gorm:"size:255" json:"line1"`
	Line2      string    `gorm:"size:255" json:"line2,omitempty"`
	Phone      string    `gorm:"size:20" json:"phone"`
	IsDefault  bool      `json:"is_default"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (a *ShippingAddress) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

type AddressModel struct {
	db *gorm.DB
}

func NewAddressModel(db *gorm.DB) *AddressModel {
	return &AddressModel{db: db}
}

func (m *AddressModel) Create(a *ShippingAddress) error {
	return m.db.Transaction(func(tx *gorm.DB) error {
		if a.IsDefault {
			if err := tx.Model(&ShippingAddress{}).
				Where("user_id = ?", a.UserID).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(a).Error
	})
}

// FindForUser enforces ownership; checkout relies on this to validate the
// address id on the request.
func (m *AddressModel) FindForUser(id, userID string) (*ShippingAddress, error) {
	var a ShippingAddress
	err := m.db.Where("id = ? AND user_id = ?", id, userID).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (m *AddressModel) ListByUser(userID string) ([]ShippingAddress, error) {
	var addresses []ShippingAddress
	err := m.db.Where("user_id = ?", userID).
		Order("is_default DESC, created_at DESC").
		Find(&addresses).Error
	return addresses, err
}

func (m *AddressModel) Update(a *ShippingAddress) error {
	return m.db.Transaction(func(tx *gorm.DB) error {
		if a.IsDefault {
			if err := tx.Model(&ShippingAddress{}).
				Where("user_id = ? AND id <> ?", a.UserID, a.ID).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		res := tx.Model(&ShippingAddress{}).
			Where("id = ? AND user_id = ?", a.ID, a.UserID).
			Updates(map[string]any{
				"name":        a.Name,
				"postal_code": a.PostalCode,
				"prefecture":  a.Prefecture,
				"city":        a.City,
				"line1":       a.Line1,
				"line2":       a.Line2,
				"phone":       a.Phone,
				"is_default":  a.IsDefault,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (m *AddressModel) Delete(id, userID string) error {
	res := m.db.Where("id = ? AND user_id = ?", id, userID).Delete(&ShippingAddress{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
