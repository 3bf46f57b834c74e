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

type ProductHandler struct {
	products *models.ProductModel
	stock    *models.StockModel
	reviews  *models.ReviewModel
	search   *services.SearchService
	images   *services.ImageStorage
}

func NewProductHandler(products *models.ProductModel, stock *models.StockModel, reviews *models.ReviewModel, search *services.SearchService, images *services.ImageStorage) *ProductHandler {
	return &ProductHandler{products: products, stock: stock, reviews: reviews, search: search, images: images}
}

// GET /api/products — public catalog, active and out-of-stock products only.
func (h *ProductHandler) List(c *gin.Context) {
	page, perPage := pagination(c)
	filter := models.ProductFilter{
		CategoryID: c.Query("category_id"),
		MinPrice:   int64Query(c, "min_price"),
		MaxPrice:   int64Query(c, "max_price"),
	}
	if status := c.Query("status"); status != "" {
		filter.Status = models.ProductStatus(status)
	}
	if filter.Status == models.ProductStatusDiscontinued {
		badRequest(c, "discontinued products are not listed")
		return
	}
	products, total, err := h.products.List(filter, page, perPage)
	if err != nil {
		fail(c, err)
		return
	}
	paged(c, productViews(products), total, page, perPage)
}

// GET /api/products/search?q=
func (h *ProductHandler) Search(c *gin.Context) {
	keyword := c.Query("q")
	if keyword == "" {
		badRequest(c, "q is required")
		return
	}
	page, perPage := pagination(c)
	products, total, err := h.search.Search(c.Request.Context(), keyword, page, perPage)
	if err != nil {
		fail(c, err)
		return
	}
	paged(c, productViews(products), total, page, perPage)
}

// GET /api/products/:id — detail view with the review summary attached.
func (h *ProductHandler) Get(c *gin.Context) {
	product, err := h.products.FindByID(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	if product.Status == models.ProductStatusDiscontinued {
		fail(c, models.ErrNotFound)
		return
	}
	summary, err := h.reviews.Summary(product.ID)
	if err != nil {
		fail(c, err)
		return
	}
	view := productView(product)
	view["reviews"] = summary
	ok(c, view)
}

// POST /api/admin/products
func (h *ProductHandler) AdminCreate(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		SKU         string `json:"sku" binding:"required"`
		Description string `json:"description"`
		Price       int64  `json:"price" binding:"required,min=1"`
		Stock       int    `json:"stock_quantity" binding:"min=0"`
		CategoryID  string `json:"category_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "name, sku and a positive price are required")
		return
	}

	product := &models.Product{
		Name:          req.Name,
		SKU:           req.SKU,
		Description:   req.Description,
		Price:         req.Price,
		StockQuantity: req.Stock,
		CategoryID:    req.CategoryID,
		Status:        models.ProductStatusActive,
	}
	if req.Stock == 0 {
		product.Status = models.ProductStatusOutOfStock
	}
	if err := h.products.Create(product); err != nil {
		fail(c, err)
		return
	}
	h.search.Index(c.Request.Context(), product)
	created(c, productView(product))
}

// PUT /api/admin/products/:id
func (h *ProductHandler) AdminUpdate(c *gin.Context) {
	product, err := h.products.FindByID(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Price       *int64  `json:"price"`
		CategoryID  *string `json:"category_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			badRequest(c, "price must be positive")
			return
		}
		product.Price = *req.Price
	}
	if req.CategoryID != nil {
		product.CategoryID = *req.CategoryID
	}

	if err := h.products.Update(product); err != nil {
		fail(c, err)
		return
	}
	h.search.Index(c.Request.Context(), product)
	ok(c, productView(product))
}

// DELETE /api/admin/products/:id — soft delete; past order snapshots survive.
func (h *ProductHandler) AdminDiscontinue(c *gin.Context) {
	id := c.Param("id")
	if err := h.products.Discontinue(id); err != nil {
		fail(c, err)
		return
	}
	h.search.Remove(c.Request.Context(), id)
	ok(c, gin.H{"discontinued": true})
}

// POST /api/admin/products/:id/stock — manual restock / correction.
func (h *ProductHandler) AdminAdjustStock(c *gin.Context) {
	var req struct {
		Delta int    `json:"delta" binding:"required"`
		Note  string `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "a non-zero delta is required")
		return
	}
	reason := models.StockReasonRestock
	if req.Delta < 0 {
		reason = models.StockReasonAdjustment
	}
	product, err := h.products.AdjustStock(c.Param("id"), req.Delta, reason, req.Note)
	if err != nil {
		fail(c, err)
		return
	}
	h.search.Index(c.Request.Context(), product)
	ok(c, productView(product))
}

// GET /api/admin/products/:id/stock — the movement ledger.
func (h *ProductHandler) AdminStockHistory(c *gin.Context) {
	page, perPage := pagination(c)
	history, total, err := h.stock.ListByProduct(c.Param("id"), page, perPage)
	if err != nil {
		fail(c, err)
		return
	}
	paged(c, history, total, page, perPage)
}

// POST /api/admin/products/:id/images — multipart upload to object storage.
func (h *ProductHandler) AdminUploadImage(c *gin.Context) {
	if !h.images.Enabled() {
		fail(c, models.NewAppError("STORAGE_UNAVAILABLE", "image storage is not configured"))
		return
	}
	product, err := h.products.FindByID(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	file, err := c.FormFile("image")
	if err != nil {
		badRequest(c, "multipart field 'image' is required")
		return
	}

	url, err := h.images.Upload(c.Request.Context(), "products/"+product.ID, file)
	if err != nil {
		fail(c, err)
		return
	}
	product.SetImages(append(product.Images(), url))
	if err := h.products.Update(product); err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"url": url, "images": product.Images()})
}

// POST /api/admin/products/import — CSV upload, upsert by SKU.
func (h *ProductHandler) AdminImportCSV(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "multipart field 'file' is required")
		return
	}
	f, err := file.Open()
	if err != nil {
		fail(c, err)
		return
	}
	defer f.Close()

	rows, err := utils.ParseProductsCSV(f)
	if err != nil {
		fail(c, err)
		return
	}

	var createdCount, updatedCount int
	for i := range rows {
		row := &rows[i]
		existing, err := h.products.FindBySKU(row.SKU)
		if err == nil {
			existing.Name = row.Name
			existing.Description = row.Description
			existing.Price = row.Price
			existing.CategoryID = row.CategoryID
			existing.Status = row.Status
			if err := h.products.Update(existing); err != nil {
				fail(c, err)
				return
			}
			// stock changes go through the ledger, never a blind overwrite
			if delta := row.StockQuantity - existing.StockQuantity; delta != 0 {
				if existing, err = h.products.AdjustStock(existing.ID, delta, models.StockReasonAdjustment, "csv import"); err != nil {
					fail(c, err)
					return
				}
			}
			h.search.Index(c.Request.Context(), existing)
			updatedCount++
			continue
		}
		if err := h.products.Create(row); err != nil {
			fail(c, err)
			return
		}
		h.search.Index(c.Request.Context(), row)
		createdCount++
	}
	zap.S().Infow("product CSV imported", "created", createdCount, "updated", updatedCount)
	ok(c, gin.H{"created": createdCount, "updated": updatedCount})
}

// GET /api/admin/products/export — full catalog CSV.
func (h *ProductHandler) AdminExportCSV(c *gin.Context) {
	products, err := h.products.ListAll()
	if err != nil {
		fail(c, err)
		return
	}
	filename := fmt.Sprintf("products-%s.csv", time.Now().Format("20060102-150405"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := utils.WriteProductsCSV(c.Writer, products); err != nil {
		zap.S().Errorw("product CSV export failed", "error", err)
	}
}

// productView flattens the comma-joined image column into a list for
// responses.
func productView(p *models.Product) gin.H {
	return gin.H{
		"id":             p.ID,
		"name":           p.Name,
		"sku":            p.SKU,
		"description":    p.Description,
		"price":          p.Price,
		"stock_quantity": p.StockQuantity,
		"category_id":    p.CategoryID,
		"status":         p.Status,
		"images":         p.Images(),
		"created_at":     p.CreatedAt,
		"updated_at":     p.UpdatedAt,
	}
}

func productViews(products []models.Product) []gin.H {
	views := make([]gin.H, 0, len(products))
	for i := range products {
		views = append(views, productView(&products[i]))
	}
	return views
}
