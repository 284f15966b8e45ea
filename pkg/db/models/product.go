package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is the catalog listing the pricing engine reads. Catalog CRUD is
// owned by a separate admin service; this side never mutates anything except
// stock during checkout.
type Product struct {
	ID                 uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	SKU                string     `gorm:"column:sku;not null;uniqueIndex"`
	Name               string     `gorm:"column:name;not null"`
	Description        *string    `gorm:"column:description"`
	GenderID           uuid.UUID  `gorm:"column:gender_id;type:uuid;not null;index"`
	CategoryID         uuid.UUID  `gorm:"column:category_id;type:uuid;not null;index"`
	SubcategoryID      uuid.UUID  `gorm:"column:subcategory_id;type:uuid;not null;index"`
	Images             []string   `gorm:"column:images;type:jsonb;serializer:json"`
	PriceCents         int64      `gorm:"column:price_cents;not null"`
	DiscountPriceCents *int64     `gorm:"column:discount_price_cents"`
	StockQty           int        `gorm:"column:stock_qty;not null;default:0"`
	IsActive           bool       `gorm:"column:is_active;not null;default:true"`
	CreatedAt          time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// UnitProductDiscountCents is the catalog-level discount per unit, derived
// from the optional discount price.
func (p Product) UnitProductDiscountCents() int64 {
	if p.DiscountPriceCents == nil {
		return 0
	}
	if d := p.PriceCents - *p.DiscountPriceCents; d > 0 {
		return d
	}
	return 0
}
