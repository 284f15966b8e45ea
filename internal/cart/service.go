package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/soniamehta/trendora-backend/internal/catalog"
	"github.com/soniamehta/trendora-backend/internal/pricing"
	"github.com/soniamehta/trendora-backend/pkg/db/models"
	pkgerrors "github.com/soniamehta/trendora-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cartLocker interface {
	AcquireCartLock(ctx context.Context, ownerKind, ownerKey string, ttl time.Duration) (bool, error)
	ReleaseCartLock(ctx context.Context, ownerKind, ownerKey string) error
}

type offerSource interface {
	ActiveOffers(ctx context.Context, now time.Time) ([]models.Offer, error)
}

// Service defines cart operations for both user and guest owners.
type Service interface {
	GetPriced(ctx context.Context, owner Owner) (*pricing.PricedCart, error)
	AddItem(ctx context.Context, owner Owner, input AddItemInput) (*pricing.PricedCart, error)
	UpdateItem(ctx context.Context, owner Owner, itemID uuid.UUID, input UpdateItemInput) (*pricing.PricedCart, error)
	RemoveItem(ctx context.Context, owner Owner, itemID uuid.UUID) (*pricing.PricedCart, error)
	Clear(ctx context.Context, owner Owner) error
	Merge(ctx context.Context, guestToken string, userID uuid.UUID) error
}

type service struct {
	repo    Repository
	catalog catalog.Repository
	offers  offerSource
	locker  cartLocker
	tx      txRunner
	lockTTL time.Duration
	now     func() time.Time
}

// NewService builds the cart service.
func NewService(repo Repository, cat catalog.Repository, offers offerSource, locker cartLocker, tx txRunner, lockTTL time.Duration) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if cat == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if offers == nil {
		return nil, fmt.Errorf("offer source required")
	}
	if locker == nil {
		return nil, fmt.Errorf("cart locker required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if lockTTL <= 0 {
		lockTTL = 10 * time.Second
	}
	return &service{
		repo:    repo,
		catalog: cat,
		offers:  offers,
		locker:  locker,
		tx:      tx,
		lockTTL: lockTTL,
		now:     time.Now,
	}, nil
}

// GetPriced loads the owner's cart and recomputes every offer discount. A
// missing cart reads as an empty one.
func (s *service) GetPriced(ctx context.Context, owner Owner) (*pricing.PricedCart, error) {
	cart, err := s.repo.FindCartWithItems(ctx, owner)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			empty := pricing.Price(nil, nil, s.now())
			return &empty, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
	}
	return s.price(ctx, cart)
}

func (s *service) AddItem(ctx context.Context, owner Owner, input AddItemInput) (*pricing.PricedCart, error) {
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	unlock, err := s.lock(ctx, owner)
	if err != nil {
		return nil, err
	}
	defer unlock()

	product, err := s.catalog.FindProductByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	cart, err := s.repo.FindOrCreateCart(ctx, owner)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
	}

	existing, err := s.repo.FindItemByProduct(ctx, cart.ID, product.ID)
	switch {
	case err == nil:
		newQty := existing.Quantity + input.Quantity
		if newQty > product.StockQty {
			return nil, stockConflict(product, newQty)
		}
		if err := s.repo.UpdateItemQuantity(ctx, existing.ID, newQty); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating cart item")
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		if input.Quantity > product.StockQty {
			return nil, stockConflict(product, input.Quantity)
		}
		item := &models.CartItem{
			CartID:               cart.ID,
			ProductID:            product.ID,
			Quantity:             input.Quantity,
			UnitPriceCents:       product.PriceCents,
			ProductDiscountCents: product.UnitProductDiscountCents(),
		}
		if err := s.repo.CreateItem(ctx, item); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "adding cart item")
		}
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart item")
	}

	return s.GetPriced(ctx, owner)
}

func (s *service) UpdateItem(ctx context.Context, owner Owner, itemID uuid.UUID, input UpdateItemInput) (*pricing.PricedCart, error) {
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	unlock, err := s.lock(ctx, owner)
	if err != nil {
		return nil, err
	}
	defer unlock()

	item, err := s.findOwnedItem(ctx, owner, itemID)
	if err != nil {
		return nil, err
	}

	product, err := s.catalog.FindProductByID(ctx, item.ProductID)
	switch {
	case err == nil:
		if input.Quantity > product.StockQty {
			return nil, stockConflict(product, input.Quantity)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		// Product gone from the catalog: nothing to cap against.
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}

	if err := s.repo.UpdateItemQuantity(ctx, item.ID, input.Quantity); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating cart item")
	}
	return s.GetPriced(ctx, owner)
}

func (s *service) RemoveItem(ctx context.Context, owner Owner, itemID uuid.UUID) (*pricing.PricedCart, error) {
	unlock, err := s.lock(ctx, owner)
	if err != nil {
		return nil, err
	}
	defer unlock()

	item, err := s.findOwnedItem(ctx, owner, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.DeleteItem(ctx, item.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "removing cart item")
	}
	return s.GetPriced(ctx, owner)
}

func (s *service) Clear(ctx context.Context, owner Owner) error {
	unlock, err := s.lock(ctx, owner)
	if err != nil {
		return err
	}
	defer unlock()

	cart, err := s.repo.FindCart(ctx, owner)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
	}
	if err := s.repo.DeleteItems(ctx, cart.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clearing cart")
	}
	return nil
}

// Merge folds the guest cart into the user cart, summing quantities for
// shared products and capping at available stock. Consume-once: the guest
// rows are deleted in the same transaction, last, so an already-merged token
// reads as an empty cart and re-presenting it is a no-op.
func (s *service) Merge(ctx context.Context, guestToken string, userID uuid.UUID) error {
	guestOwner := GuestOwner(guestToken)
	userOwner := UserOwner(userID)

	// Both carts are written: items land on the user side, the guest side is
	// deleted. Hold both locks, user before guest, so a concurrent guest-cart
	// write cannot slip in between the read and the delete.
	unlock, err := s.lock(ctx, userOwner)
	if err != nil {
		return err
	}
	defer unlock()

	unlockGuest, err := s.lock(ctx, guestOwner)
	if err != nil {
		return err
	}
	defer unlockGuest()

	guestCart, err := s.repo.FindCartWithItems(ctx, guestOwner)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading guest cart")
	}
	if len(guestCart.Items) == 0 {
		if err := s.repo.DeleteCart(ctx, guestCart.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "discarding empty guest cart")
		}
		return nil
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		cat := s.catalog.WithTx(tx)

		userCart, err := repo.FindOrCreateCart(ctx, userOwner)
		if err != nil {
			return err
		}

		for _, guestItem := range guestCart.Items {
			target := guestItem.Quantity
			existing, err := repo.FindItemByProduct(ctx, userCart.ID, guestItem.ProductID)
			if err == nil {
				target += existing.Quantity
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			if product, perr := cat.FindProductByID(ctx, guestItem.ProductID); perr == nil && target > product.StockQty {
				target = product.StockQty
			}
			if target < 1 {
				continue
			}

			if existing != nil {
				if err := repo.UpdateItemQuantity(ctx, existing.ID, target); err != nil {
					return err
				}
			} else {
				item := &models.CartItem{
					CartID:               userCart.ID,
					ProductID:            guestItem.ProductID,
					Quantity:             target,
					UnitPriceCents:       guestItem.UnitPriceCents,
					ProductDiscountCents: guestItem.ProductDiscountCents,
				}
				if err := repo.CreateItem(ctx, item); err != nil {
					return err
				}
			}
		}

		// Guest deletion is the final step: on any earlier failure the guest
		// cart survives untouched and the merge stays retryable.
		return repo.DeleteCart(ctx, guestCart.ID)
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "merging guest cart")
	}
	return nil
}

func (s *service) findOwnedItem(ctx context.Context, owner Owner, itemID uuid.UUID) (*models.CartItem, error) {
	cart, err := s.repo.FindCart(ctx, owner)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
	}
	item, err := s.repo.FindItem(ctx, cart.ID, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart item")
	}
	return item, nil
}

// price recomputes every line against the live offer set.
func (s *service) price(ctx context.Context, cart *models.Cart) (*pricing.PricedCart, error) {
	now := s.now()

	activeOffers, err := s.offers.ActiveOffers(ctx, now)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading active offers")
	}

	lines, err := s.buildLines(ctx, cart)
	if err != nil {
		return nil, err
	}

	priced := pricing.Price(lines, activeOffers, now)
	return &priced, nil
}

func (s *service) buildLines(ctx context.Context, cart *models.Cart) ([]pricing.Line, error) {
	if len(cart.Items) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.catalog.FindProductsByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart products")
	}
	byID := make(map[uuid.UUID]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	lines := make([]pricing.Line, 0, len(cart.Items))
	for _, item := range cart.Items {
		product, ok := byID[item.ProductID]
		if !ok {
			// Product deleted from the catalog: price the line from its
			// captured values; targeting degrades to product-id-only.
			product = models.Product{ID: item.ProductID, PriceCents: item.UnitPriceCents}
		}
		lines = append(lines, pricing.Line{
			ItemID:                   item.ID,
			Product:                  product,
			Quantity:                 item.Quantity,
			UnitPriceCents:           item.UnitPriceCents,
			UnitProductDiscountCents: item.ProductDiscountCents,
		})
	}
	return lines, nil
}

func (s *service) lock(ctx context.Context, owner Owner) (func(), error) {
	ok, err := s.locker.AcquireCartLock(ctx, owner.Kind.String(), owner.Key, s.lockTTL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquiring cart lock")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "cart is being modified, retry shortly")
	}
	return func() {
		_ = s.locker.ReleaseCartLock(context.WithoutCancel(ctx), owner.Kind.String(), owner.Key)
	}, nil
}

func stockConflict(product *models.Product, requested int) error {
	return pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock").WithDetails(map[string]any{
		"productId": product.ID,
		"requested": requested,
		"available": product.StockQty,
	})
}
