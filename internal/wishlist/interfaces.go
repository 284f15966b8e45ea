package wishlist

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/soniamehta/trendora-backend/internal/cart"
	"github.com/soniamehta/trendora-backend/pkg/db/models"
)

// Repository defines persistence operations for wishlist rows. Owners are
// addressed the same way as carts.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListByOwner(ctx context.Context, owner cart.Owner) ([]models.WishlistItem, error)
	Add(ctx context.Context, owner cart.Owner, productID uuid.UUID) error
	Remove(ctx context.Context, owner cart.Owner, productID uuid.UUID) (bool, error)
	DeleteByOwner(ctx context.Context, owner cart.Owner) error
}
