package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is one product line inside a cart. The offer discount is never
// persisted here; it is a pure function of the offer set at read time and is
// recomputed on every read. Only the order snapshot freezes it.
type CartItem struct {
	ID                   uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	CartID               uuid.UUID `gorm:"column:cart_id;type:uuid;not null;uniqueIndex:cart_items_cart_product_key"`
	ProductID            uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:cart_items_cart_product_key"`
	Quantity             int       `gorm:"column:quantity;not null"`
	UnitPriceCents       int64     `gorm:"column:unit_price_cents;not null"`
	ProductDiscountCents int64     `gorm:"column:product_discount_cents;not null;default:0"`
	CreatedAt            time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
