package wishlist

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/soniamehta/trendora-backend/internal/cart"
	"github.com/soniamehta/trendora-backend/pkg/db"
	"github.com/soniamehta/trendora-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a wishlist repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ListByOwner(ctx context.Context, owner cart.Owner) ([]models.WishlistItem, error) {
	var rows []models.WishlistItem
	err := r.db.WithContext(ctx).
		Where("owner_kind = ? AND owner_key = ?", owner.Kind, owner.Key).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

// Add inserts the (owner, product) pair; adding an already-liked product is
// a no-op, keeping the wishlist a set.
func (r *repository) Add(ctx context.Context, owner cart.Owner, productID uuid.UUID) error {
	item := models.WishlistItem{
		ID:        uuid.New(),
		OwnerKind: owner.Kind,
		OwnerKey:  owner.Key,
		ProductID: productID,
	}
	if err := r.db.WithContext(ctx).Create(&item).Error; err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil
		}
		return err
	}
	return nil
}

func (r *repository) Remove(ctx context.Context, owner cart.Owner, productID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("owner_kind = ? AND owner_key = ? AND product_id = ?", owner.Kind, owner.Key, productID).
		Delete(&models.WishlistItem{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) DeleteByOwner(ctx context.Context, owner cart.Owner) error {
	return r.db.WithContext(ctx).
		Where("owner_kind = ? AND owner_key = ?", owner.Kind, owner.Key).
		Delete(&models.WishlistItem{}).Error
}
