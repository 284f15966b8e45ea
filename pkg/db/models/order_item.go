package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderItem captures one line of an order by value: product fields are copied
// at checkout so the snapshot survives catalog edits and deletions.
type OrderItem struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	OrderID     uuid.UUID  `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID   *uuid.UUID `gorm:"column:product_id;type:uuid"`
	ProductName string     `gorm:"column:product_name;not null"`
	SKU         string     `gorm:"column:sku;not null"`
	Images      []string   `gorm:"column:images;type:jsonb;serializer:json"`

	Quantity           int   `gorm:"column:quantity;not null"`
	UnitPriceCents     int64 `gorm:"column:unit_price_cents;not null"`
	DiscountPriceCents int64 `gorm:"column:discount_price_cents;not null"`
	DiscountCents      int64 `gorm:"column:discount_cents;not null;default:0"`
	LineTotalCents     int64 `gorm:"column:line_total_cents;not null"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
