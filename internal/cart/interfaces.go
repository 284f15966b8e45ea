package cart

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/soniamehta/trendora-backend/pkg/db/models"
	"github.com/soniamehta/trendora-backend/pkg/enums"
)

// Owner identifies whose cart is being addressed: a durable user id or an
// opaque guest session token.
type Owner struct {
	Kind enums.CartOwnerKind
	Key  string
}

// UserOwner addresses the durable cart of an account.
func UserOwner(userID uuid.UUID) Owner {
	return Owner{Kind: enums.CartOwnerKindUser, Key: userID.String()}
}

// GuestOwner addresses the time-boxed cart of a guest session.
func GuestOwner(token string) Owner {
	return Owner{Kind: enums.CartOwnerKindGuest, Key: token}
}

// Repository defines persistence operations for carts and their items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindCart(ctx context.Context, owner Owner) (*models.Cart, error)
	FindOrCreateCart(ctx context.Context, owner Owner) (*models.Cart, error)
	FindCartWithItems(ctx context.Context, owner Owner) (*models.Cart, error)
	ListGuestCarts(ctx context.Context, updatedBefore time.Time) ([]models.Cart, error)
	FindItem(ctx context.Context, cartID, itemID uuid.UUID) (*models.CartItem, error)
	FindItemByProduct(ctx context.Context, cartID, productID uuid.UUID) (*models.CartItem, error)
	CreateItem(ctx context.Context, item *models.CartItem) error
	UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error
	DeleteItem(ctx context.Context, itemID uuid.UUID) error
	DeleteItems(ctx context.Context, cartID uuid.UUID) error
	DeleteCart(ctx context.Context, cartID uuid.UUID) error
}
