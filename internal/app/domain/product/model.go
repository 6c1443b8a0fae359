package product

import (
	"time"

	"github.com/shopspring/decimal"
)

// LowStockThreshold marks the quantity below which a product counts as low
// stock.
const LowStockThreshold = 5

// Product is an inventory item, optionally referencing a category and a
// supplier. CategoryName and SupplierName are denormalized display names
// filled by the joined store reads; they are nil when the reference is absent
// or dangling.
type Product struct {
	ID           string          `json:"id"`
	Name         string          `json:"product_name"`
	CategoryID   *string         `json:"category_id"`
	SupplierID   *string         `json:"supplier_id"`
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	DateAdded    time.Time       `json:"date_added"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	CategoryName *string         `json:"category_name"`
	SupplierName *string         `json:"supplier_name"`
}

// LowStock reports whether the product quantity is below the threshold.
func (p Product) LowStock() bool {
	return p.Quantity < LowStockThreshold
}

// Filter restricts product listings.
type Filter struct {
	CategoryID string
	LowStock   bool
}
