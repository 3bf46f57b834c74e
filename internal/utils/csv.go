package utils

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/AimHigh0322/fashion-EC-site-sub001/internal/models"
)

var productCSVHeader = []string{"sku", "name", "description", "price", "stock_quantity", "category_id", "status"}

// WriteProductsCSV streams the catalog in the same column order the import
// accepts, so an exported file round-trips.
func WriteProductsCSV(w io.Writer, products []models.Product) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(productCSVHeader); err != nil {
		return err
	}
	for _, p := range products {
		rec := []string{
			p.SKU,
			p.Name,
			p.Description,
			strconv.FormatInt(p.Price, 10),
			strconv.Itoa(p.StockQuantity),
			p.CategoryID,
			string(p.Status),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ParseProductsCSV reads an import file. Header row is required; a bad row
// aborts the whole parse with a row-numbered error so nothing is half-imported.
func ParseProductsCSV(r io.Reader) ([]models.Product, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, models.NewAppError("INVALID_INPUT", "empty CSV file")
	}
	if len(header) < len(productCSVHeader) || !strings.EqualFold(header[0], "sku") {
		return nil, models.NewAppError("INVALID_INPUT",
			"CSV header must be: "+strings.Join(productCSVHeader, ","))
	}

	var products []models.Product
	row := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			return nil, models.NewAppError("INVALID_INPUT", fmt.Sprintf("row %d: %v", row, err))
		}
		if len(rec) < len(productCSVHeader) {
			return nil, models.NewAppError("INVALID_INPUT", fmt.Sprintf("row %d: expected %d columns", row, len(productCSVHeader)))
		}
		price, err := strconv.ParseInt(strings.TrimSpace(rec[3]), 10, 64)
		if err != nil || price < 0 {
			return nil, models.NewAppError("INVALID_INPUT", fmt.Sprintf("row %d: invalid price %q", row, rec[3]))
		}
		stock, err := strconv.Atoi(strings.TrimSpace(rec[4]))
		if err != nil || stock < 0 {
			return nil, models.NewAppError("INVALID_INPUT", fmt.Sprintf("row %d: invalid stock_quantity %q", row, rec[4]))
		}
		status := models.ProductStatus(strings.TrimSpace(rec[6]))
		if status == "" {
			status = models.ProductStatusActive
		}
		switch status {
		case models.ProductStatusActive, models.ProductStatusOutOfStock, models.ProductStatusDiscontinued:
		default:
			return nil, models.NewAppError("INVALID_INPUT", fmt.Sprintf("row %d: unknown status %q", row, rec[6]))
		}
		products = append(products, models.Product{
			SKU:           strings.TrimSpace(rec[0]),
			Name:          strings.TrimSpace(rec[1]),
			Description:   rec[2],
			Price:         price,
			StockQuantity: stock,
			CategoryID:    strings.TrimSpace(rec[5]),
			Status:        status,
		})
	}
	if len(products) == 0 {
		return nil, models.NewAppError("INVALID_INPUT", "CSV contains no product rows")
	}
	return products, nil
}

// WriteOrdersCSV is the admin export used for accounting handoffs.
func WriteOrdersCSV(w io.Writer, orders []models.Order) error {
	cw := csv.NewWriter(w)
	header := []string{"order_number", "created_at", "status", "payment_status",
		"subtotal", "discount_total", "tax", "shipping_fee", "total"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, o := range orders {
		rec := []string{
			o.OrderNumber,
			o.CreatedAt.Format("2006-01-02 15:04:05"),
			string(o.Status),
			string(o.PaymentStatus),
			strconv.FormatInt(o.Subtotal, 10),
			strconv.FormatInt(o.DiscountTotal, 10),
			strconv.FormatInt(o.Tax, 10),
			strconv.FormatInt(o.ShippingFee, 10),
			strconv.FormatInt(o.Total, 10),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
