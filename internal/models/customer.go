package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer is the order-side record of a buyer, separate from the auth
// account. It is upserted during materialization so orders keep a stable
// reference even if the user account changes or is removed.
type Customer struct {
	ID        string    `gorm:"type:char(36);primaryKey" json:"id"`
	UserID    string    `gorm:"type:char(36);index" json:"user_id"`
	Email     string    `gorm:"size:255;index" json:"email"`
	Name      string    `gorm:"size:255" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// UpsertCustomerTx matches by user_id first, then by email, creating the row
// when neither matches. Runs inside the materialization transaction.
func UpsertCustomerTx(tx *gorm.DB, userID, email, name string) (*Customer, error) {
	var c Customer
	err := tx.Where("user_id = ?", userID).First(&c).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = tx.Where("email = ?", email).First(&c).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c = Customer{UserID: userID, Email: email, Name: name}
			if err := tx.Create(&c).Error; err != nil {
				return nil, err
			}
			return &c, nil
		}
	}
	updates := map[string]any{"email": email}
	if name != "" {
		updates["name"] = name
	}
	if c.UserID == "" {
		updates["user_id"] = userID
	}
	if err := tx.Model(&Customer{}).Where("id = ?", c.ID).Updates(updates).Error; err != nil {
		return nil, err
	}
	c.Email = email
	if name != "" {
		c.Name = name
	}
	if c.UserID == "" {
		c.UserID = userID
	}
	return &c, nil
}
