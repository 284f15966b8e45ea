package wishlist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/soniamehta/trendora-backend/internal/cart"
	"github.com/soniamehta/trendora-backend/internal/catalog"
	pkgerrors "github.com/soniamehta/trendora-backend/pkg/errors"
	"github.com/soniamehta/trendora-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Entry is one wishlist row joined with its product for display.
type Entry struct {
	ProductID  uuid.UUID `json:"productId"`
	Name       string    `json:"name,omitempty"`
	SKU        string    `json:"sku,omitempty"`
	Images     []string  `json:"images,omitempty"`
	PriceCents int64     `json:"priceCents"`
	Price      string    `json:"price"`
	InStock    bool      `json:"inStock"`
	AddedAt    time.Time `json:"addedAt"`
}

// Service defines wishlist operations for both user and guest owners.
type Service interface {
	List(ctx context.Context, owner cart.Owner) ([]Entry, error)
	Add(ctx context.Context, owner cart.Owner, productID uuid.UUID) ([]Entry, error)
	Remove(ctx context.Context, owner cart.Owner, productID uuid.UUID) error
	Merge(ctx context.Context, guestToken string, userID uuid.UUID) error
}

type service struct {
	repo    Repository
	catalog catalog.Repository
	tx      txRunner
}

// NewService builds the wishlist service.
func NewService(repo Repository, cat catalog.Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("wishlist repository required")
	}
	if cat == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, catalog: cat, tx: tx}, nil
}

func (s *service) List(ctx context.Context, owner cart.Owner) ([]Entry, error) {
	rows, err := s.repo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing wishlist")
	}
	if len(rows) == 0 {
		return []Entry{}, nil
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ProductID)
	}
	products, err := s.catalog.FindProductsByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading wishlist products")
	}
	byID := make(map[uuid.UUID]int, len(products))
	for i, p := range products {
		byID[p.ID] = i
	}

	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		entry := Entry{ProductID: row.ProductID, AddedAt: row.CreatedAt}
		if i, ok := byID[row.ProductID]; ok {
			p := products[i]
			entry.Name = p.Name
			entry.SKU = p.SKU
			entry.Images = p.Images
			entry.PriceCents = p.PriceCents
			entry.Price = types.CentsToDecimalString(p.PriceCents)
			entry.InStock = p.StockQty > 0
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *service) Add(ctx context.Context, owner cart.Owner, productID uuid.UUID) ([]Entry, error) {
	product, err := s.catalog.FindProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	if err := s.repo.Add(ctx, owner, productID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "adding wishlist item")
	}
	return s.List(ctx, owner)
}

func (s *service) Remove(ctx context.Context, owner cart.Owner, productID uuid.UUID) error {
	removed, err := s.repo.Remove(ctx, owner, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "removing wishlist item")
	}
	if !removed {
		return pkgerrors.New(pkgerrors.CodeNotFound, "wishlist item not found")
	}
	return nil
}

// Merge folds the guest wishlist into the user's with set-union semantics.
// Consume-once: guest rows are deleted last, in the same transaction.
func (s *service) Merge(ctx context.Context, guestToken string, userID uuid.UUID) error {
	guestOwner := cart.GuestOwner(guestToken)
	userOwner := cart.UserOwner(userID)

	guestRows, err := s.repo.ListByOwner(ctx, guestOwner)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading guest wishlist")
	}
	if len(guestRows) == 0 {
		return nil
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		for _, row := range guestRows {
			if err := repo.Add(ctx, userOwner, row.ProductID); err != nil {
				return err
			}
		}
		return repo.DeleteByOwner(ctx, guestOwner)
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "merging guest wishlist")
	}
	return nil
}
