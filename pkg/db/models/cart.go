package models

import (
	"time"

	"github.com/soniamehta/trendora-backend/pkg/enums"

	"github.com/google/uuid"
)

// Cart is the single cart container for both guests and users; only the
// owner key differs. Guest carts are addressed by an opaque session token,
// user carts by the account id.
type Cart struct {
	ID        uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	OwnerKind enums.CartOwnerKind `gorm:"column:owner_kind;not null;uniqueIndex:carts_owner_key"`
	OwnerKey  string              `gorm:"column:owner_key;not null;uniqueIndex:carts_owner_key"`
	Items     []CartItem          `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
