package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/soniamehta/trendora-backend/pkg/enums"
	"github.com/soniamehta/trendora-backend/pkg/types"
)

// Order is the immutable checkout snapshot. Everything except Status is
// frozen at creation; later catalog or offer edits never reach back into a
// placed order.
type Order struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	OrderNumber string            `gorm:"column:order_number;not null;uniqueIndex"`
	UserID      uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index"`
	Status      enums.OrderStatus `gorm:"column:status;not null;default:'pending'"`

	SubtotalCents int64 `gorm:"column:subtotal_cents;not null"`
	DiscountCents int64 `gorm:"column:discount_cents;not null;default:0"`
	TotalCents    int64 `gorm:"column:total_cents;not null"`

	ShippingAddress *types.Address `gorm:"column:shipping_address;type:jsonb;serializer:json"`
	ContactEmail    *string        `gorm:"column:contact_email"`
	ContactPhone    *string        `gorm:"column:contact_phone"`
	Notes           *string        `gorm:"column:notes"`

	Items     []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}
