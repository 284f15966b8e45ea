package catalog

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
	pkgerrors "github.com/soniamehta/trendora-backend/pkg/errors"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  sku TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  description TEXT,
  gender_id TEXT NOT NULL,
  category_id TEXT NOT NULL,
  subcategory_id TEXT NOT NULL,
  images TEXT,
  price_cents INTEGER NOT NULL,
  discount_price_cents INTEGER,
  stock_qty INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(products).Error)
	return db
}

func newProduct(t *testing.T, db *gorm.DB, sku string, priceCents int64, stock int) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:            uuid.New(),
		SKU:           sku,
		Name:          "Test Product " + sku,
		GenderID:      uuid.New(),
		CategoryID:    uuid.New(),
		SubcategoryID: uuid.New(),
		PriceCents:    priceCents,
		StockQty:      stock,
		IsActive:      true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestRepositoryFindProductByID(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	created := newProduct(t, db, "SKU-100", 2599, 5)

	found, err := repo.FindProductByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.SKU, found.SKU)
	assert.Equal(t, int64(2599), found.PriceCents)
}

func TestRepositoryFindProductsByIDs(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	a := newProduct(t, db, "SKU-A", 1000, 5)
	b := newProduct(t, db, "SKU-B", 2000, 5)
	newProduct(t, db, "SKU-C", 3000, 5)

	found, err := repo.FindProductsByIDs(context.Background(), []uuid.UUID{a.ID, b.ID})
	require.NoError(t, err)
	assert.Len(t, found, 2)

	found, err = repo.FindProductsByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestRepositoryDecrementStock(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	product := newProduct(t, db, "SKU-STOCK", 1000, 3)

	require.NoError(t, repo.DecrementStock(context.Background(), product.ID, 2))

	reloaded, err := repo.FindProductByID(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.StockQty)
}

func TestRepositoryDecrementStockInsufficient(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	product := newProduct(t, db, "SKU-LOW", 1000, 1)

	err := repo.DecrementStock(context.Background(), product.ID, 2)
	require.Error(t, err)

	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeConflict, appErr.Code())

	reloaded, err := repo.FindProductByID(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.StockQty)
}
