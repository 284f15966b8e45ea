package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/soniamehta/trendora-backend/pkg/enums"
)

// WishlistItem links an owner (user or guest session) to a liked product.
type WishlistItem struct {
	ID        uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	OwnerKind enums.CartOwnerKind `gorm:"column:owner_kind;not null;uniqueIndex:wishlist_owner_product_key"`
	OwnerKey  string              `gorm:"column:owner_key;not null;uniqueIndex:wishlist_owner_product_key"`
	ProductID uuid.UUID           `gorm:"column:product_id;type:uuid;not null;uniqueIndex:wishlist_owner_product_key"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
}
