package products

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the storage-mapped representation of a product row. Rows live in
// the default schema; category links live in product_categories alongside it.
type Product struct {
	ID          int64           `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Description *string         `json:"description,omitempty" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	SKU         string          `json:"sku" db:"sku"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}
