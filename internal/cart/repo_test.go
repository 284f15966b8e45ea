package cart

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/soniamehta/trendora-backend/pkg/db/models"
)

func setupCartTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	carts := `
CREATE TABLE IF NOT EXISTS carts (
  id TEXT PRIMARY KEY,
  owner_kind TEXT NOT NULL,
  owner_key TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (owner_kind, owner_key)
);`
	items := `
CREATE TABLE IF NOT EXISTS cart_items (
  id TEXT PRIMARY KEY,
  cart_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  unit_price_cents INTEGER NOT NULL,
  product_discount_cents INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (cart_id, product_id)
);`
	require.NoError(t, db.Exec(carts).Error)
	require.NoError(t, db.Exec(items).Error)
	return db
}

func TestRepositoryFindOrCreateCartIdempotent(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	owner := GuestOwner("tok-123")

	first, err := repo.FindOrCreateCart(context.Background(), owner)
	require.NoError(t, err)

	second, err := repo.FindOrCreateCart(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestRepositoryGuestAndUserCartsAreDistinct(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)

	key := uuid.New()
	userCart, err := repo.FindOrCreateCart(context.Background(), UserOwner(key))
	require.NoError(t, err)

	guestCart, err := repo.FindOrCreateCart(context.Background(), GuestOwner(key.String()))
	require.NoError(t, err)

	assert.NotEqual(t, userCart.ID, guestCart.ID)
}

func TestRepositoryItemLifecycle(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	owner := UserOwner(uuid.New())

	cart, err := repo.FindOrCreateCart(context.Background(), owner)
	require.NoError(t, err)

	item := &models.CartItem{
		CartID:         cart.ID,
		ProductID:      uuid.New(),
		Quantity:       2,
		UnitPriceCents: 1200,
	}
	require.NoError(t, repo.CreateItem(context.Background(), item))

	require.NoError(t, repo.UpdateItemQuantity(context.Background(), item.ID, 5))

	loaded, err := repo.FindItem(context.Background(), cart.ID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, loaded.Quantity)

	byProduct, err := repo.FindItemByProduct(context.Background(), cart.ID, item.ProductID)
	require.NoError(t, err)
	assert.Equal(t, item.ID, byProduct.ID)

	require.NoError(t, repo.DeleteItem(context.Background(), item.ID))
	_, err = repo.FindItem(context.Background(), cart.ID, item.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryDeleteCartRemovesItems(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	owner := GuestOwner("tok-del")

	cart, err := repo.FindOrCreateCart(context.Background(), owner)
	require.NoError(t, err)
	require.NoError(t, repo.CreateItem(context.Background(), &models.CartItem{
		CartID:         cart.ID,
		ProductID:      uuid.New(),
		Quantity:       1,
		UnitPriceCents: 100,
	}))

	require.NoError(t, repo.DeleteCart(context.Background(), cart.ID))

	_, err = repo.FindCart(context.Background(), owner)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("cart_id = ?", cart.ID).Count(&count).Error)
	assert.Zero(t, count)
}
