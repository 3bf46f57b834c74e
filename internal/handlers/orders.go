package handlers

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AimHigh0322/fashion-EC-site-sub001/internal/models"
	"github.com/AimHigh0322/fashion-EC-site-sub001/internal/services"
	"github.com/AimHigh0322/fashion-EC-site-sub001/internal/utils"
)

type OrderHandler struct {
	orders   *models.OrderModel
	tracking *models.TrackingModel
	service  *services.OrderService
}

func NewOrderHandler(orders *models.OrderModel, tracking *models.TrackingModel, service *services.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders, tracking: tracking, service: service}
}

// GET /api/orders
func (h *OrderHandler) ListMine(c *gin.Context) {
	page, perPage := pagination(c)
	orders, total, err := h.orders.ListByUser(c.GetString("user_id"), page, perPage)
	if err != nil {
		fail(c, err)
		return
	}
	paged(c, orders, total, page, perPage)
}

// GET /api/orders/:id
func (h *OrderHandler) GetMine(c *gin.Context) {
	order, err := h.orders.FindByIDForUser(c.Param("id"), c.GetString("user_id"))
	if err != nil {
		fail(c, err)
		return
	}
	tracking, _ := h.tracking.FindByOrderID(order.ID)
	ok(c, gin.H{"order": order, "tracking": tracking})
}

// POST /api/orders/:id/cancel
func (h *OrderHandler) CancelMine(c *gin.Context) {
	order, err := h.service.Cancel(c.Param("id"), c.GetString("user_id"), false)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, order)
}

// GET /api/admin/orders?status=
func (h *OrderHandler) AdminList(c *gin.Context) {
	page, perPage := pagination(c)
	status := models.OrderStatus(c.Query("status"))
	orders, total, err := h.orders.List(status, page, perPage)
	if err != nil {
		fail(c, err)
		return
	}
	paged(c, orders, total, page, perPage)
}

// GET /api/admin/orders/:id
func (h *OrderHandler) AdminGet(c *gin.Context) {
	order, err := h.orders.FindByID(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	tracking, _ := h.tracking.FindByOrderID(order.ID)
	ok(c, gin.H{"order": order, "tracking": tracking})
}

// PUT /api/admin/orders/:id/status
func (h *OrderHandler) AdminUpdateStatus(c *gin.Context) {
	var req struct {
		Status models.OrderStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "status is required")
		return
	}

	// cancelled goes through the cancellation path so stock is restored
	if req.Status == models.OrderStatusCancelled {
		order, err := h.service.Cancel(c.Param("id"), "", true)
		if err != nil {
			fail(c, err)
			return
		}
		ok(c, order)
		return
	}

	order, err := h.orders.UpdateStatus(c.Param("id"), req.Status)
	if err != nil {
		fail(c, err)
		return
	}
	zap.S().Infow("order status updated", "order_number", order.OrderNumber, "status", order.Status)
	ok(c, order)
}

// PUT /api/admin/orders/:id/tracking — upserts the shipment record; the
// tracking status feeds the order status through the shared transition table.
func (h *OrderHandler) AdminUpsertTracking(c *gin.Context) {
	var req struct {
		Carrier        string                `json:"carrier" binding:"required"`
		TrackingNumber string                `json:"tracking_number" binding:"required"`
		Status         models.TrackingStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "carrier, tracking_number and status are required")
		return
	}
	tracking, err := h.tracking.Upsert(c.Param("id"), req.Carrier, req.TrackingNumber, req.Status)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, tracking)
}

// GET /api/admin/orders/export?status=&from=&to= — CSV download.
func (h *OrderHandler) AdminExportCSV(c *gin.Context) {
	status := models.OrderStatus(c.Query("status"))
	from, to, err := dateRange(c)
	if err != nil {
		badRequest(c, "from and to must be YYYY-MM-DD")
		return
	}
	orders, err := h.orders.ListForExport(status, from, to)
	if err != nil {
		fail(c, err)
		return
	}

	filename := fmt.Sprintf("orders-%s.csv", time.Now().Format("20060102-150405"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := utils.WriteOrdersCSV(c.Writer, orders); err != nil {
		zap.S().Errorw("order CSV export failed", "error", err)
	}
}
