package models

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory SQLite database with the full schema. Each
// call gets its own database, tests never share state.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&User{},
		&Customer{},
		&Category{},
		&Product{},
		&CartItem{},
		&Campaign{},
		&CampaignProduct{},
		&Order{},
		&OrderItem{},
		&StockHistory{},
		&ShippingAddress{},
		&ShippingTracking{},
		&Review{},
		&Favorite{},
		&Banner{},
		&WebhookAudit{},
	))
	return db
}
