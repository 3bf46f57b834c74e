package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AimHigh0322/fashion-EC-site-sub001/internal/models"
)

// Every endpoint answers with the same envelope: {"success": true, "data": ...}
// or {"success": false, "message": ...}.

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": data})
}

func paged(c *gin.Context, items any, total int64, page, perPage int) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    items,
		"meta": gin.H{
			"total":    total,
			"page":     page,
			"per_page": perPage,
		},
	})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": message})
}

// fail maps model error codes onto HTTP statuses. Unrecognized errors become
// opaque 500s so internals never leak to clients.
func fail(c *gin.Context, err error) {
	if ae, isApp := models.AsAppError(err); isApp {
		c.JSON(statusFor(ae.Code), gin.H{"success": false, "message": ae.Message, "code": ae.Code})
		return
	}
	zap.S().Errorw("unhandled error", "path", c.FullPath(), "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "internal server error"})
}

func statusFor(code string) int {
	switch code {
	case "NOT_FOUND":
		return http.StatusNotFound
	case "FORBIDDEN":
		return http.StatusForbidden
	case "UNAUTHORIZED":
		return http.StatusUnauthorized
	case "DUPLICATE_EMAIL", "DUPLICATE_SKU", "DUPLICATE_REVIEW", "DUPLICATE_SLUG",
		"CATEGORY_IN_USE", "ALREADY_CANCELLED":
		return http.StatusConflict
	case "STOCK_SHORTAGE", "PRODUCT_INACTIVE", "EMPTY_CART", "INVALID_TRANSITION", "ORDER_SHIPPED":
		return http.StatusConflict
	case "PAYMENT_INCOMPLETE":
		return http.StatusPaymentRequired
	case "STORAGE_UNAVAILABLE":
		return http.StatusServiceUnavailable
	case "INVALID_INPUT":
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// pagination pulls ?page= and ?per_page= with the same defaults the models
// apply in their Paginate scope.
func pagination(c *gin.Context) (int, int) {
	page := intQuery(c, "page", 1)
	perPage := intQuery(c, "per_page", 20)
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}
	return page, perPage
}

func intQuery(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

func int64Query(c *gin.Context, name string) int64 {
	n, err := strconv.ParseInt(c.Query(name), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// dateRange parses ?from= and ?to= as YYYY-MM-DD in server local time.
// "to" is inclusive at day granularity, so the returned upper bound is the
// start of the following day. Missing params leave the bound open (zero).
func dateRange(c *gin.Context) (time.Time, time.Time, error) {
	var from, to time.Time
	if raw := c.Query("from"); raw != "" {
		t, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return from, to, err
		}
		from = t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return from, to, err
		}
		to = t.AddDate(0, 0, 1)
	}
	return from, to, nil
}
