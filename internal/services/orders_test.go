package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/AimHigh0322/fashion-EC-site-sub001/internal/database"
	"github.com/AimHigh0322/fashion-EC-site-sub001/internal/models"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

type orderFixture struct {
	db       *gorm.DB
	service  *OrderService
	user     *models.User
	address  *models.ShippingAddress
	product1 *models.Product
	product2 *models.Product
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	db := newTestDB(t)

	user := &models.User{Email: "taro@example.jp", Name: "山田太郎", Role: models.RoleCustomer, IsActive: true}
	require.NoError(t, db.Create(user).Error)

	address := &models.ShippingAddress{
		UserID: user.ID, Name: "山田太郎", PostalCode: "100-0001",
		Prefecture: "東京都", City: "千代田区", Line1: "1-1-1", IsDefault: true,
	}
	require.NoError(t, db.Create(address).Error)

	p1 := &models.Product{Name: "Tシャツ", SKU: "TS-001", Price: 2000, StockQuantity: 10, Status: models.ProductStatusActive}
	p2 := &models.Product{Name: "パーカー", SKU: "PK-001", Price: 5000, StockQuantity: 2, Status: models.ProductStatusActive}
	require.NoError(t, db.Create(p1).Error)
	require.NoError(t, db.Create(p2).Error)

	carts := models.NewCartModel(db)
	_, err := carts.Add(user.ID, p1.ID, 2)
	require.NoError(t, err)
	_, err = carts.Add(user.ID, p2.ID, 1)
	require.NoError(t, err)

	service := NewOrderService(db, models.NewOrderModel(db), nil)
	service.clock = fixedClock{t: time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)}

	return &orderFixture{db: db, service: service, user: user, address: address, product1: p1, product2: p2}
}

func (f *orderFixture) materialize(t *testing.T, sessionID string) (*models.Order, bool) {
	t.Helper()
	order, createdNow, err := f.service.Materialize(MaterializeInput{
		SessionID: sessionID,
		UserID:    f.user.ID,
		Email:     f.user.Email,
		Name:      f.user.Name,
		AddressID: f.address.ID,
	})
	require.NoError(t, err)
	return order, createdNow
}

func TestMaterialize(t *testing.T) {
	f := newOrderFixture(t)
	order, createdNow := f.materialize(t, "cs_test_1")

	assert.True(t, createdNow)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, models.PaymentStatusPaid, order.PaymentStatus)
	assert.NotEmpty(t, order.OrderNumber)

	// 2×2000 + 1×5000 = 9000, tax 900, free shipping over 5000
	assert.Equal(t, int64(9000), order.Subtotal)
	assert.Equal(t, int64(0), order.DiscountTotal)
	assert.Equal(t, int64(900), order.Tax)
	assert.Equal(t, int64(0), order.ShippingFee)
	assert.Equal(t, int64(9900), order.Total)
	assert.Len(t, order.Items, 2)

	t.Run("stock decremented with ledger rows", func(t *testing.T) {
		var p1, p2 models.Product
		require.NoError(t, f.db.First(&p1, "id = ?", f.product1.ID).Error)
		require.NoError(t, f.db.First(&p2, "id = ?", f.product2.ID).Error)
		assert.Equal(t, 8, p1.StockQuantity)
		assert.Equal(t, 1, p2.StockQuantity)

		net, err := models.NewStockModel(f.db).NetDeltaForOrder(order.ID)
		require.NoError(t, err)
		assert.Equal(t, -3, net)
	})

	t.Run("cart cleared", func(t *testing.T) {
		lines, err := models.NewCartModel(f.db).Lines(f.user.ID)
		require.NoError(t, err)
		assert.Empty(t, lines)
	})

	t.Run("customer upserted", func(t *testing.T) {
		var customer models.Customer
		require.NoError(t, f.db.First(&customer, "user_id = ?", f.user.ID).Error)
		assert.Equal(t, customer.ID, order.CustomerID)
	})
}

func TestMaterializeCapturesPaymentIntent(t *testing.T) {
	f := newOrderFixture(t)

	order, createdNow, err := f.service.Materialize(MaterializeInput{
		SessionID:       "cs_test_pi",
		PaymentIntentID: "pi_test_1",
		UserID:          f.user.ID,
		Email:           f.user.Email,
		AddressID:       f.address.ID,
	})
	require.NoError(t, err)
	require.True(t, createdNow)
	assert.Equal(t, "pi_test_1", order.StripeIntentID)

	// async payment events correlate through the stored intent id
	require.NoError(t, models.NewOrderModel(f.db).
		UpdatePaymentStatusByIntent("pi_test_1", models.PaymentStatusFailed))
	var stored models.Order
	require.NoError(t, f.db.First(&stored, "stripe_session_id = ?", "cs_test_pi").Error)
	assert.Equal(t, models.PaymentStatusFailed, stored.PaymentStatus)
}

func TestMaterializeChargedAmountDivergence(t *testing.T) {
	f := newOrderFixture(t)
	core, logs := observer.New(zap.WarnLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	defer restore()

	// cart prices to 9900; pretend Stripe charged a stale campaign price
	order, _, err := f.service.Materialize(MaterializeInput{
		SessionID:   "cs_test_diverge",
		UserID:      f.user.ID,
		Email:       f.user.Email,
		AddressID:   f.address.ID,
		AmountTotal: 9020,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(9900), order.Total)
	assert.Equal(t, 1, logs.FilterMessage("order total diverged from charged amount").Len())
}

func TestMaterializeInsertCollision(t *testing.T) {
	f := newOrderFixture(t)

	// A competing trigger claims the session between the idempotency check
	// and our insert: inject a conflicting row right before the order create
	// so tx.Create hits the unique index on stripe_session_id.
	injected := false
	err := f.db.Callback().Create().Before("gorm:create").Register("collide_once", func(d *gorm.DB) {
		if injected || d.Statement.Table != "orders" {
			return
		}
		injected = true
		_, execErr := d.Statement.ConnPool.ExecContext(d.Statement.Context,
			"INSERT INTO orders (id, order_number, user_id, stripe_session_id, payment_status, status) VALUES (?, ?, ?, ?, ?, ?)",
			"competing-order", "ORD-20250901-COMPET", f.user.ID, "cs_test_race", "paid", "pending")
		require.NoError(t, execErr)
	})
	require.NoError(t, err)
	defer f.db.Callback().Create().Remove("collide_once")

	order, createdNow := f.materialize(t, "cs_test_race")
	require.NotNil(t, order)
	assert.True(t, createdNow)

	// exactly one order for the session, stock moved exactly once
	var count int64
	f.db.Model(&models.Order{}).Where("stripe_session_id = ?", "cs_test_race").Count(&count)
	assert.Equal(t, int64(1), count)

	var p1 models.Product
	require.NoError(t, f.db.First(&p1, "id = ?", f.product1.ID).Error)
	assert.Equal(t, 8, p1.StockQuantity)
}

func TestMaterializeIdempotent(t *testing.T) {
	f := newOrderFixture(t)
	first, createdNow := f.materialize(t, "cs_test_replay")
	require.True(t, createdNow)

	// webhook replay after the cart is already gone
	second, createdAgain := f.materialize(t, "cs_test_replay")
	assert.False(t, createdAgain)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	f.db.Model(&models.Order{}).Where("stripe_session_id = ?", "cs_test_replay").Count(&count)
	assert.Equal(t, int64(1), count)

	// stock only moved once
	var p1 models.Product
	require.NoError(t, f.db.First(&p1, "id = ?", f.product1.ID).Error)
	assert.Equal(t, 8, p1.StockQuantity)
}

func TestMaterializeAppliesCampaigns(t *testing.T) {
	f := newOrderFixture(t)
	now := f.service.clock.Now()

	campaign := &models.Campaign{
		Name: "秋の20%オフ", DiscountType: models.DiscountTypePercentage, Value: 20,
		StartsAt: now.Add(-time.Hour), EndsAt: now.Add(time.Hour), IsActive: true,
		ProductIDs: []string{f.product1.ID},
	}
	require.NoError(t, models.NewCampaignModel(f.db).Create(campaign))

	order, _ := f.materialize(t, "cs_test_campaign")

	// p1: 2000→1600 ×2, p2 unchanged. discounted subtotal 8200, tax 820
	assert.Equal(t, int64(9000), order.Subtotal)
	assert.Equal(t, int64(800), order.DiscountTotal)
	assert.Equal(t, int64(820), order.Tax)
	assert.Equal(t, int64(9020), order.Total)

	// item snapshots carry the discounted unit price
	for _, item := range order.Items {
		if item.ProductID == f.product1.ID {
			assert.Equal(t, int64(1600), item.UnitPrice)
		}
	}
}

func TestMaterializeStockShortageFails(t *testing.T) {
	f := newOrderFixture(t)

	// someone bought the last hoodies between session creation and webhook
	require.NoError(t, f.db.Model(&models.Product{}).
		Where("id = ?", f.product2.ID).
		Update("stock_quantity", 0).Error)

	_, _, err := f.service.Materialize(MaterializeInput{
		SessionID: "cs_test_short",
		UserID:    f.user.ID,
		Email:     f.user.Email,
		AddressID: f.address.ID,
	})
	require.Error(t, err)
	ae, isApp := models.AsAppError(err)
	require.True(t, isApp)
	assert.Equal(t, "STOCK_SHORTAGE", ae.Code)

	// nothing committed: no order, p1 stock untouched
	var count int64
	f.db.Model(&models.Order{}).Count(&count)
	assert.Zero(t, count)
	var p1 models.Product
	require.NoError(t, f.db.First(&p1, "id = ?", f.product1.ID).Error)
	assert.Equal(t, 10, p1.StockQuantity)
}

func TestCancel(t *testing.T) {
	f := newOrderFixture(t)
	order, _ := f.materialize(t, "cs_test_cancel")

	t.Run("owner cancels pending order", func(t *testing.T) {
		cancelled, err := f.service.Cancel(order.ID, f.user.ID, false)
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)

		// ledger nets to zero and stock is back
		net, err := models.NewStockModel(f.db).NetDeltaForOrder(order.ID)
		require.NoError(t, err)
		assert.Zero(t, net)

		var p1 models.Product
		require.NoError(t, f.db.First(&p1, "id = ?", f.product1.ID).Error)
		assert.Equal(t, 10, p1.StockQuantity)
	})

	t.Run("double cancel rejected", func(t *testing.T) {
		_, err := f.service.Cancel(order.ID, f.user.ID, false)
		require.Error(t, err)
		ae, isApp := models.AsAppError(err)
		require.True(t, isApp)
		assert.Equal(t, "ALREADY_CANCELLED", ae.Code)
	})
}

func TestCancelGuards(t *testing.T) {
	f := newOrderFixture(t)
	order, _ := f.materialize(t, "cs_test_guard")

	t.Run("other user cannot see the order", func(t *testing.T) {
		_, err := f.service.Cancel(order.ID, "someone-else", false)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("shipped orders point at support", func(t *testing.T) {
		require.NoError(t, f.db.Model(&models.Order{}).
			Where("id = ?", order.ID).
			Update("status", models.OrderStatusShipped).Error)

		_, err := f.service.Cancel(order.ID, f.user.ID, false)
		require.Error(t, err)
		ae, isApp := models.AsAppError(err)
		require.True(t, isApp)
		assert.Equal(t, "ORDER_SHIPPED", ae.Code)
	})

	t.Run("delivered orders cannot be cancelled even by admins", func(t *testing.T) {
		require.NoError(t, f.db.Model(&models.Order{}).
			Where("id = ?", order.ID).
			Update("status", models.OrderStatusDelivered).Error)

		_, err := f.service.Cancel(order.ID, "", true)
		require.Error(t, err)
		ae, isApp := models.AsAppError(err)
		require.True(t, isApp)
		assert.Equal(t, "INVALID_TRANSITION", ae.Code)
	})

	t.Run("admin cancels processing order for any user", func(t *testing.T) {
		require.NoError(t, f.db.Model(&models.Order{}).
			Where("id = ?", order.ID).
			Update("status", models.OrderStatusProcessing).Error)

		cancelled, err := f.service.Cancel(order.ID, "", true)
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)
	})
}
