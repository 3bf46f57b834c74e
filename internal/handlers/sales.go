package handlers

import (
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/AimHigh0322/fashion-EC-site-sub001/internal/models"
)

const dashboardCacheTTL = time.Minute

type SalesHandler struct {
	sales *models.SalesModel
	rdb   *redis.Client // nil disables dashboard caching
}

func NewSalesHandler(sales *models.SalesModel, rdb *redis.Client) *SalesHandler {
	return &SalesHandler{sales: sales, rdb: rdb}
}

// GET /api/admin/sales/summary?from=&to=
func (h *SalesHandler) Summary(c *gin.Context) {
	from, to, err := dateRange(c)
	if err != nil {
		badRequest(c, "from and to must be YYYY-MM-DD")
		return
	}
	summary, err := h.sales.Summary(from, to)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, summary)
}

// GET /api/admin/sales/daily?from=&to=
func (h *SalesHandler) Daily(c *gin.Context) {
	from, to, err := dateRange(c)
	if err != nil {
		badRequest(c, "from and to must be YYYY-MM-DD")
		return
	}
	daily, err := h.sales.Daily(from, to)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, daily)
}

// GET /api/admin/sales/products?from=&to=&limit=
func (h *SalesHandler) ByProduct(c *gin.Context) {
	from, to, err := dateRange(c)
	if err != nil {
		badRequest(c, "from and to must be YYYY-MM-DD")
		return
	}
	limit := intQuery(c, "limit", 10)
	if limit < 1 || limit > 100 {
		limit = 10
	}
	rows, err := h.sales.ByProduct(from, to, limit)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, rows)
}

type dashboardPayload struct {
	Today      *models.SalesSummary  `json:"today"`
	Last30Days *models.SalesSummary  `json:"last_30_days"`
	Daily      []models.DailySales   `json:"daily"`
	TopProduct []models.ProductSales `json:"top_products"`
}

// GET /api/admin/dashboard — today's and the last 30 days' numbers, served
// from a short Redis cache because every admin page load hits it.
func (h *SalesHandler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	const cacheKey = "dashboard:sales"

	if h.rdb != nil {
		if raw, err := h.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var payload dashboardPayload
			if json.Unmarshal([]byte(raw), &payload) == nil {
				ok(c, payload)
				return
			}
		}
	}

	payload, err := h.buildDashboard()
	if err != nil {
		fail(c, err)
		return
	}

	if h.rdb != nil {
		if raw, err := json.Marshal(payload); err == nil {
			if err := h.rdb.Set(ctx, cacheKey, raw, dashboardCacheTTL).Err(); err != nil {
				zap.S().Warnw("dashboard cache write failed", "error", err)
			}
		}
	}
	ok(c, payload)
}

func (h *SalesHandler) buildDashboard() (*dashboardPayload, error) {
	now := time.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := todayStart.AddDate(0, 0, -30)

	today, err := h.sales.Summary(todayStart, now)
	if err != nil {
		return nil, err
	}
	month, err := h.sales.Summary(monthStart, now)
	if err != nil {
		return nil, err
	}
	daily, err := h.sales.Daily(monthStart, now)
	if err != nil {
		return nil, err
	}
	top, err := h.sales.ByProduct(monthStart, now, 5)
	if err != nil {
		return nil, err
	}
	return &dashboardPayload{Today: today, Last30Days: month, Daily: daily, TopProduct: top}, nil
}
