package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderRecord is one fully satisfied checkout.
type OrderRecord struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	SessionID  string          `gorm:"column:session_id;not null"`
	TotalPrice decimal.Decimal `gorm:"column:total_price;type:numeric(12,2);not null"`
	OrderedAt  time.Time       `gorm:"column:ordered_at;not null"`
	Items      []OrderLineItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
}

// OrderLineItem snapshots one purchased line. Descriptive fields are copied
// from the product at purchase time so later catalogue edits leave the
// ledger untouched.
type OrderLineItem struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OrderID     uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID   string          `gorm:"column:product_id;not null"`
	Description string          `gorm:"column:description;not null"`
	ImageName   string          `gorm:"column:image_name;not null"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price;type:numeric(10,2);not null"`
	Qty         int             `gorm:"column:qty;not null"`
}
