package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductStatus string

const (
	ProductStatusActive       ProductStatus = "active"
	ProductStatusOutOfStock   ProductStatus = "out_of_stock"
	ProductStatusDiscontinued ProductStatus = "discontinued"
)

// Product. Price is in whole yen; JPY has no fractional unit so integer math
// is exact everywhere downstream.
type Product struct {
	ID            string        `gorm:"type:char(36);primaryKey" json:"id"`
	Name          string        `gorm:"size:255" json:"name"`
	SKU           string        `gorm:"size:64;uniqueIndex" json:"sku"`
	Description   string        `gorm:"type:text" json:"description"`
	Price         int64         `json:"price"`
	StockQuantity int           `json:"stock_quantity"`
	CategoryID    string        `gorm:"type:char(36);index" json:"category_id"`
	Status        ProductStatus `gorm:"size:16;index;default:active" json:"status"`
	ImageURLs     string        `gorm:"type:text" json:"-"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// Images splits the stored comma-joined URL list.
func (p *Product) Images() []string {
	if p.ImageURLs == "" {
		return nil
	}
	return strings.Split(p.ImageURLs, ",")
}

func (p *Product) SetImages(urls []string) {
	p.ImageURLs = strings.Join(urls, ",")
}

// ProductFilter narrows List results.
type ProductFilter struct {
	CategoryID string
	Status     ProductStatus
	Keyword    string // SQL LIKE fallback when Elasticsearch is not wired
	MinPrice   int64
	MaxPrice   int64
}

type ProductModel struct {
	db *gorm.DB
}

func NewProductModel(db *gorm.DB) *ProductModel {
	return &ProductModel{db: db}
}

func (m *ProductModel) Create(p *Product) error {
	if err := m.db.Create(p).Error; err != nil {
		if IsDuplicateKey(err) {
			return ErrDuplicateSKU
		}
		return err
	}
	return nil
}

func (m *ProductModel) FindByID(id string) (*Product, error) {
	var p Product
	err := m.db.Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (m *ProductModel) FindBySKU(sku string) (*Product, error) {
	var p Product
	err := m.db.Where("sku = ?", sku).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (m *ProductModel) List(f ProductFilter, page, perPage int) ([]Product, int64, error) {
	q := m.db.Model(&Product{})
	if f.CategoryID != "" {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Keyword != "" {
		like := "%" + f.Keyword + "%"
		q = q.Where("name LIKE ? OR description LIKE ?", like, like)
	}
	if f.MinPrice > 0 {
		q = q.Where("price >= ?", f.MinPrice)
	}
	if f.MaxPrice > 0 {
		q = q.Where("price <= ?", f.MaxPrice)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var products []Product
	err := q.Order("created_at DESC").Scopes(Paginate(page, perPage)).Find(&products).Error
	return products, total, err
}

// ListAll returns the whole catalog ordered by SKU; used by the CSV export.
func (m *ProductModel) ListAll() ([]Product, error) {
	var products []Product
	err := m.db.Order("sku").Find(&products).Error
	return products, err
}

func (m *ProductModel) Update(p *Product) error {
	res := m.db.Model(&Product{}).Where("id = ?", p.ID).Updates(map[string]any{
		"name":        p.Name,
		"description": p.Description,
		"price":       p.Price,
		"category_id": p.CategoryID,
		"status":      p.Status,
		"image_urls":  p.ImageURLs,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Discontinue soft-removes a product from the catalog. Order item snapshots
// keep historical data intact, so nothing is deleted.
func (m *ProductModel) Discontinue(id string) error {
	res := m.db.Model(&Product{}).Where("id = ?", id).Update("status", ProductStatusDiscontinued)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AdjustStock applies a manual delta (restock or correction) and writes the
// ledger row in the same transaction.
func (m *ProductModel) AdjustStock(productID string, delta int, reason StockReason, note string) (*Product, error) {
	var p Product
	err := m.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", productID).First(&p).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		next := p.StockQuantity + delta
		if next < 0 {
			return NewAppError("INVALID_INPUT",
				fmt.Sprintf("stock cannot go negative (current %d, delta %d)", p.StockQuantity, delta))
		}
		status := p.Status
		if status != ProductStatusDiscontinued {
			if next == 0 {
				status = ProductStatusOutOfStock
			} else {
				status = ProductStatusActive
			}
		}
		if err := tx.Model(&Product{}).Where("id = ?", productID).
			Updates(map[string]any{"stock_quantity": next, "status": status}).Error; err != nil {
			return err
		}
		p.StockQuantity = next
		p.Status = status
		return appendStockHistory(tx, productID, "", delta, reason, note)
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// DecrementStockTx performs the guarded decrement used during order
// materialization. The conditional UPDATE makes the check-and-decrement
// atomic, so concurrent checkouts cannot oversell.
func DecrementStockTx(tx *gorm.DB, productID, orderID string, qty int) error {
	res := tx.Model(&Product{}).
		Where("id = ? AND stock_quantity >= ?", productID, qty).
		Update("stock_quantity", gorm.Expr("stock_quantity - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStockShortage
	}
	if err := tx.Model(&Product{}).
		Where("id = ? AND stock_quantity = 0 AND status = ?", productID, ProductStatusActive).
		Update("status", ProductStatusOutOfStock).Error; err != nil {
		return err
	}
	return appendStockHistory(tx, productID, orderID, -qty, StockReasonOrder, "")
}

// RestoreStockTx is the compensating write used by cancellation. Products
// that went out_of_stock from the sale come back to active.
func RestoreStockTx(tx *gorm.DB, productID, orderID string, qty int) error {
	res := tx.Model(&Product{}).
		Where("id = ?", productID).
		Update("stock_quantity", gorm.Expr("stock_quantity + ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	if err := tx.Model(&Product{}).
		Where("id = ? AND status = ?", productID, ProductStatusOutOfStock).
		Update("status", ProductStatusActive).Error; err != nil {
		return err
	}
	return appendStockHistory(tx, productID, orderID, qty, StockReasonCancel, "")
}
