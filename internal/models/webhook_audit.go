package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WebhookAudit records the outcome of each processed Stripe event.
// Best effort: a failed audit write never fails the webhook itself.
type WebhookAudit struct {
	ID        string    `gorm:"type:char(36);primaryKey" json:"id"`
	EventID   string    `gorm:"size:255;index" json:"event_id"`
	EventType string    `gorm:"size:64" json:"event_type"`
	Outcome   string    `gorm:"size:16" json:"outcome"` // processed, duplicate, skipped, error
	Detail    string    `gorm:"size:512" json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (w *WebhookAudit) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	return nil
}

type WebhookAuditModel struct {
	db *gorm.DB
}

func NewWebhookAuditModel(db *gorm.DB) *WebhookAuditModel {
	return &WebhookAuditModel{db: db}
}

func (m *WebhookAuditModel) Record(eventID, eventType, outcome, detail string) error {
	return m.db.Create(&WebhookAudit{
		EventID:   eventID,
		EventType: eventType,
		Outcome:   outcome,
		Detail:    detail,
	}).Error
}
