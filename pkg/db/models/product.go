package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the canonical catalogue row. The ID is the catalogue
// identifier customers type in ("0001", "0002", ...), not a surrogate key.
type Product struct {
	ID          string          `gorm:"column:id;primaryKey"`
	Description string          `gorm:"column:description;not null"`
	ImageName   string          `gorm:"column:image_name;not null"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price;type:numeric(10,2);not null"`
	StockQty    int             `gorm:"column:stock_qty;not null;default:0"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
