package cart

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/soniamehta/trendora-backend/pkg/db"
	"github.com/soniamehta/trendora-backend/pkg/db/models"
	"github.com/soniamehta/trendora-backend/pkg/enums"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindCart(ctx context.Context, owner Owner) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).
		Where("owner_kind = ? AND owner_key = ?", owner.Kind, owner.Key).
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *repository) FindOrCreateCart(ctx context.Context, owner Owner) (*models.Cart, error) {
	cart, err := r.FindCart(ctx, owner)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	created := &models.Cart{
		ID:        uuid.New(),
		OwnerKind: owner.Kind,
		OwnerKey:  owner.Key,
	}
	if err := r.db.WithContext(ctx).Create(created).Error; err != nil {
		// Lost a create race; the winner's row is the cart.
		if db.IsUniqueViolation(err, "") {
			return r.FindCart(ctx, owner)
		}
		return nil, err
	}
	return created, nil
}

func (r *repository) FindCartWithItems(ctx context.Context, owner Owner) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).
		Preload("Items", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at ASC").Order("id ASC")
		}).
		Where("owner_kind = ? AND owner_key = ?", owner.Kind, owner.Key).
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// ListGuestCarts returns guest carts whose last write is older than the
// cutoff. Fresh carts are skipped so a cart created moments before its
// session key lands in Redis is never swept.
func (r *repository) ListGuestCarts(ctx context.Context, updatedBefore time.Time) ([]models.Cart, error) {
	var carts []models.Cart
	err := r.db.WithContext(ctx).
		Where("owner_kind = ? AND updated_at < ?", enums.CartOwnerKindGuest, updatedBefore).
		Order("updated_at ASC").
		Find(&carts).Error
	return carts, err
}

func (r *repository) FindItem(ctx context.Context, cartID, itemID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		Where("id = ? AND cart_id = ?", itemID, cartID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) FindItemByProduct(ctx context.Context, cartID, productID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) CreateItem(ctx context.Context, item *models.CartItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *repository) UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error {
	return r.db.WithContext(ctx).Model(&models.CartItem{}).
		Where("id = ?", itemID).
		Update("quantity", quantity).Error
}

func (r *repository) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", itemID).Delete(&models.CartItem{}).Error
}

func (r *repository) DeleteItems(ctx context.Context, cartID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error
}

func (r *repository) DeleteCart(ctx context.Context, cartID uuid.UUID) error {
	if err := r.DeleteItems(ctx, cartID); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Where("id = ?", cartID).Delete(&models.Cart{}).Error
}
