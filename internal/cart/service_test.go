package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/soniamehta/trendora-backend/internal/catalog"
	"github.com/soniamehta/trendora-backend/pkg/db/models"
	"github.com/soniamehta/trendora-backend/pkg/enums"
	pkgerrors "github.com/soniamehta/trendora-backend/pkg/errors"
	"github.com/soniamehta/trendora-backend/pkg/types"
)

// fakeRepo is an in-memory cart store with the same not-found semantics as
// the GORM-backed repository.
type fakeRepo struct {
	carts map[Owner]*models.Cart
	items map[uuid.UUID][]*models.CartItem
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		carts: map[Owner]*models.Cart{},
		items: map[uuid.UUID][]*models.CartItem{},
	}
}

func (f *fakeRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepo) FindCart(ctx context.Context, owner Owner) (*models.Cart, error) {
	if cart, ok := f.carts[owner]; ok {
		return cart, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) FindOrCreateCart(ctx context.Context, owner Owner) (*models.Cart, error) {
	if cart, ok := f.carts[owner]; ok {
		return cart, nil
	}
	cart := &models.Cart{ID: uuid.New(), OwnerKind: owner.Kind, OwnerKey: owner.Key}
	f.carts[owner] = cart
	return cart, nil
}

func (f *fakeRepo) FindCartWithItems(ctx context.Context, owner Owner) (*models.Cart, error) {
	cart, err := f.FindCart(ctx, owner)
	if err != nil {
		return nil, err
	}
	copied := *cart
	copied.Items = nil
	for _, item := range f.items[cart.ID] {
		copied.Items = append(copied.Items, *item)
	}
	return &copied, nil
}

func (f *fakeRepo) ListGuestCarts(ctx context.Context, updatedBefore time.Time) ([]models.Cart, error) {
	var carts []models.Cart
	for _, cart := range f.carts {
		if cart.OwnerKind == enums.CartOwnerKindGuest {
			carts = append(carts, *cart)
		}
	}
	return carts, nil
}

func (f *fakeRepo) FindItem(ctx context.Context, cartID, itemID uuid.UUID) (*models.CartItem, error) {
	for _, item := range f.items[cartID] {
		if item.ID == itemID {
			return item, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) FindItemByProduct(ctx context.Context, cartID, productID uuid.UUID) (*models.CartItem, error) {
	for _, item := range f.items[cartID] {
		if item.ProductID == productID {
			return item, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) CreateItem(ctx context.Context, item *models.CartItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	f.items[item.CartID] = append(f.items[item.CartID], item)
	return nil
}

func (f *fakeRepo) UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error {
	for _, list := range f.items {
		for _, item := range list {
			if item.ID == itemID {
				item.Quantity = quantity
				return nil
			}
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeRepo) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	for cartID, list := range f.items {
		for i, item := range list {
			if item.ID == itemID {
				f.items[cartID] = append(list[:i], list[i+1:]...)
				return nil
			}
		}
	}
	return nil
}

func (f *fakeRepo) DeleteItems(ctx context.Context, cartID uuid.UUID) error {
	delete(f.items, cartID)
	return nil
}

func (f *fakeRepo) DeleteCart(ctx context.Context, cartID uuid.UUID) error {
	delete(f.items, cartID)
	for owner, cart := range f.carts {
		if cart.ID == cartID {
			delete(f.carts, owner)
		}
	}
	return nil
}

type fakeCatalog struct {
	products map[uuid.UUID]*models.Product
	findErr  error
}

func (f *fakeCatalog) WithTx(tx *gorm.DB) catalog.Repository { return f }

func (f *fakeCatalog) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	if p, ok := f.products[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCatalog) FindProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	var out []models.Product
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeCatalog) DecrementStock(ctx context.Context, productID uuid.UUID, qty int) error {
	return nil
}

type stubOffers struct {
	offers []models.Offer
}

func (s *stubOffers) ActiveOffers(ctx context.Context, now time.Time) ([]models.Offer, error) {
	return s.offers, nil
}

type stubLocker struct {
	held     bool
	acquires int
	releases int
}

func (s *stubLocker) AcquireCartLock(ctx context.Context, kind, key string, ttl time.Duration) (bool, error) {
	s.acquires++
	return !s.held, nil
}

func (s *stubLocker) ReleaseCartLock(ctx context.Context, kind, key string) error {
	s.releases++
	return nil
}

type stubTx struct{}

func (stubTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type cartFixture struct {
	svc     Service
	repo    *fakeRepo
	catalog *fakeCatalog
	offers  *stubOffers
	locker  *stubLocker
}

func newCartFixture(t *testing.T) *cartFixture {
	t.Helper()

	fx := &cartFixture{
		repo:    newFakeRepo(),
		catalog: &fakeCatalog{products: map[uuid.UUID]*models.Product{}},
		offers:  &stubOffers{},
		locker:  &stubLocker{},
	}
	svc, err := NewService(fx.repo, fx.catalog, fx.offers, fx.locker, stubTx{}, time.Second)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	fx.svc = svc
	return fx
}

func (fx *cartFixture) addProduct(priceCents int64, stock int) *models.Product {
	p := &models.Product{
		ID:            uuid.New(),
		SKU:           uuid.NewString()[:8],
		Name:          "Fixture Product",
		GenderID:      uuid.New(),
		CategoryID:    uuid.New(),
		SubcategoryID: uuid.New(),
		PriceCents:    priceCents,
		StockQty:      stock,
		IsActive:      true,
	}
	fx.catalog.products[p.ID] = p
	return p
}

func TestAddItemCreatesLineWithCapturedPrice(t *testing.T) {
	fx := newCartFixture(t)
	owner := UserOwner(uuid.New())
	product := fx.addProduct(1500, 10)

	priced, err := fx.svc.AddItem(context.Background(), owner, AddItemInput{ProductID: product.ID, Quantity: 2})
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if len(priced.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(priced.Items))
	}
	item := priced.Items[0]
	if item.UnitPriceCents != 1500 || item.Quantity != 2 {
		t.Fatalf("unexpected line: %+v", item)
	}
	if priced.Summary.SubtotalCents != 3000 {
		t.Fatalf("subtotal = %d, want 3000", priced.Summary.SubtotalCents)
	}
}

func TestAddItemSumsQuantityForSameProduct(t *testing.T) {
	fx := newCartFixture(t)
	owner := UserOwner(uuid.New())
	product := fx.addProduct(1000, 10)

	if _, err := fx.svc.AddItem(context.Background(), owner, AddItemInput{ProductID: product.ID, Quantity: 2}); err != nil {
		t.Fatalf("first AddItem: %v", err)
	}
	priced, err := fx.svc.AddItem(context.Background(), owner, AddItemInput{ProductID: product.ID, Quantity: 3})
	if err != nil {
		t.Fatalf("second AddItem: %v", err)
	}
	if len(priced.Items) != 1 || priced.Items[0].Quantity != 5 {
		t.Fatalf("expected single line of quantity 5, got %+v", priced.Items)
	}
}

func TestAddItemRejectsInsufficientStock(t *testing.T) {
	fx := newCartFixture(t)
	owner := UserOwner(uuid.New())
	product := fx.addProduct(1000, 2)

	_, err := fx.svc.AddItem(context.Background(), owner, AddItemInput{ProductID: product.ID, Quantity: 3})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestMutationsRejectedWhileLockHeld(t *testing.T) {
	fx := newCartFixture(t)
	fx.locker.held = true
	owner := UserOwner(uuid.New())
	product := fx.addProduct(1000, 10)

	_, err := fx.svc.AddItem(context.Background(), owner, AddItemInput{ProductID: product.ID, Quantity: 1})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict while lock held, got %v", err)
	}
}

func TestLockReleasedAfterMutation(t *testing.T) {
	fx := newCartFixture(t)
	owner := UserOwner(uuid.New())
	product := fx.addProduct(1000, 10)

	if _, err := fx.svc.AddItem(context.Background(), owner, AddItemInput{ProductID: product.ID, Quantity: 1}); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if fx.locker.acquires != 1 || fx.locker.releases != 1 {
		t.Fatalf("acquires=%d releases=%d, want 1/1", fx.locker.acquires, fx.locker.releases)
	}
}

func TestUpdateItemNotFound(t *testing.T) {
	fx := newCartFixture(t)
	owner := UserOwner(uuid.New())

	_, err := fx.svc.UpdateItem(context.Background(), owner, uuid.New(), UpdateItemInput{Quantity: 2})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGetPricedMissingCartReadsEmpty(t *testing.T) {
	fx := newCartFixture(t)

	priced, err := fx.svc.GetPriced(context.Background(), GuestOwner("never-seen"))
	if err != nil {
		t.Fatalf("GetPriced: %v", err)
	}
	if len(priced.Items) != 0 || priced.Summary.TotalCents != 0 {
		t.Fatalf("expected empty cart, got %+v", priced)
	}
}

func TestGetPricedAppliesOfferDiscount(t *testing.T) {
	fx := newCartFixture(t)
	owner := UserOwner(uuid.New())
	product := fx.addProduct(1000, 10)

	now := time.Now()
	fx.offers.offers = []models.Offer{{
		ID:        uuid.New(),
		Name:      "Ten Off",
		OfferType: enums.OfferTypePercentageOff,
		Rule:      types.OfferRule{DiscountPercent: 10},
		StartDate: now.Add(-time.Hour),
		EndDate:   now.Add(time.Hour),
		IsActive:  true,
	}}

	priced, err := fx.svc.AddItem(context.Background(), owner, AddItemInput{ProductID: product.ID, Quantity: 2})
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if priced.Items[0].OfferDiscountCents != 200 {
		t.Fatalf("offerDiscount = %d, want 200", priced.Items[0].OfferDiscountCents)
	}
	if priced.Summary.TotalCents != 1800 {
		t.Fatalf("total = %d, want 1800", priced.Summary.TotalCents)
	}
}

func TestMergeSumsQuantitiesAndConsumesGuestCart(t *testing.T) {
	fx := newCartFixture(t)
	userID := uuid.New()
	guestToken := "guest-token-1"
	shared := fx.addProduct(1000, 10)
	guestOnly := fx.addProduct(500, 10)

	userOwner := UserOwner(userID)
	guestOwner := GuestOwner(guestToken)

	if _, err := fx.svc.AddItem(context.Background(), userOwner, AddItemInput{ProductID: shared.ID, Quantity: 2}); err != nil {
		t.Fatalf("seed user cart: %v", err)
	}
	if _, err := fx.svc.AddItem(context.Background(), guestOwner, AddItemInput{ProductID: shared.ID, Quantity: 1}); err != nil {
		t.Fatalf("seed guest cart: %v", err)
	}
	if _, err := fx.svc.AddItem(context.Background(), guestOwner, AddItemInput{ProductID: guestOnly.ID, Quantity: 3}); err != nil {
		t.Fatalf("seed guest cart: %v", err)
	}

	if err := fx.svc.Merge(context.Background(), guestToken, userID); err != nil {
		t.Fatalf("Merge: %v", err)
	}

	priced, err := fx.svc.GetPriced(context.Background(), userOwner)
	if err != nil {
		t.Fatalf("GetPriced: %v", err)
	}
	quantities := map[uuid.UUID]int{}
	for _, item := range priced.Items {
		quantities[item.ProductID] = item.Quantity
	}
	if quantities[shared.ID] != 3 {
		t.Fatalf("shared product quantity = %d, want 3", quantities[shared.ID])
	}
	if quantities[guestOnly.ID] != 3 {
		t.Fatalf("guest-only product quantity = %d, want 3", quantities[guestOnly.ID])
	}

	guestPriced, err := fx.svc.GetPriced(context.Background(), guestOwner)
	if err != nil {
		t.Fatalf("GetPriced guest: %v", err)
	}
	if len(guestPriced.Items) != 0 {
		t.Fatal("guest cart should be consumed after merge")
	}
}

func TestMergeIsConsumeOnce(t *testing.T) {
	fx := newCartFixture(t)
	userID := uuid.New()
	guestToken := "guest-token-2"
	product := fx.addProduct(1000, 10)

	if _, err := fx.svc.AddItem(context.Background(), GuestOwner(guestToken), AddItemInput{ProductID: product.ID, Quantity: 2}); err != nil {
		t.Fatalf("seed guest cart: %v", err)
	}

	if err := fx.svc.Merge(context.Background(), guestToken, userID); err != nil {
		t.Fatalf("first merge: %v", err)
	}
	if err := fx.svc.Merge(context.Background(), guestToken, userID); err != nil {
		t.Fatalf("second merge must be a no-op, got %v", err)
	}

	priced, err := fx.svc.GetPriced(context.Background(), UserOwner(userID))
	if err != nil {
		t.Fatalf("GetPriced: %v", err)
	}
	if len(priced.Items) != 1 || priced.Items[0].Quantity != 2 {
		t.Fatalf("second merge duplicated items: %+v", priced.Items)
	}
}

func TestUpdateItemSurfacesCatalogFailure(t *testing.T) {
	fx := newCartFixture(t)
	owner := UserOwner(uuid.New())
	product := fx.addProduct(1000, 2)

	priced, err := fx.svc.AddItem(context.Background(), owner, AddItemInput{ProductID: product.ID, Quantity: 1})
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	// A transient catalog error must not let an over-stock quantity through.
	fx.catalog.findErr = errors.New("catalog down")
	_, err = fx.svc.UpdateItem(context.Background(), owner, priced.Items[0].ItemID, UpdateItemInput{Quantity: 99})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeInternal {
		t.Fatalf("expected internal error, got %v", err)
	}

	// A product genuinely gone from the catalog has no stock left to cap
	// against; the update proceeds on the captured line.
	fx.catalog.findErr = nil
	delete(fx.catalog.products, product.ID)
	updated, err := fx.svc.UpdateItem(context.Background(), owner, priced.Items[0].ItemID, UpdateItemInput{Quantity: 3})
	if err != nil {
		t.Fatalf("UpdateItem after catalog delete: %v", err)
	}
	if updated.Items[0].Quantity != 3 {
		t.Fatalf("quantity = %d, want 3", updated.Items[0].Quantity)
	}
}

// keyedLocker tracks locks per owner so merge locking can be observed.
type keyedLocker struct {
	held     map[string]bool
	acquired []string
}

func ownerLockName(kind, key string) string { return kind + ":" + key }

func (l *keyedLocker) AcquireCartLock(ctx context.Context, kind, key string, ttl time.Duration) (bool, error) {
	name := ownerLockName(kind, key)
	l.acquired = append(l.acquired, name)
	return !l.held[name], nil
}

func (l *keyedLocker) ReleaseCartLock(ctx context.Context, kind, key string) error { return nil }

func TestMergeHoldsBothCartLocks(t *testing.T) {
	repo := newFakeRepo()
	cat := &fakeCatalog{products: map[uuid.UUID]*models.Product{}}
	locker := &keyedLocker{held: map[string]bool{}}
	svc, err := NewService(repo, cat, &stubOffers{}, locker, stubTx{}, time.Second)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	userID := uuid.New()
	guestToken := "guest-token-4"
	guestOwner := GuestOwner(guestToken)
	userOwner := UserOwner(userID)

	product := &models.Product{ID: uuid.New(), PriceCents: 1000, StockQty: 10, IsActive: true}
	cat.products[product.ID] = product
	if _, err := svc.AddItem(context.Background(), guestOwner, AddItemInput{ProductID: product.ID, Quantity: 2}); err != nil {
		t.Fatalf("seed guest cart: %v", err)
	}

	// A guest-cart write in flight holds the guest lock; the merge must back
	// off instead of deleting items the writer is still adding.
	locker.held[ownerLockName(guestOwner.Kind.String(), guestOwner.Key)] = true
	err = svc.Merge(context.Background(), guestToken, userID)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict while guest lock held, got %v", err)
	}
	if _, err := repo.FindCart(context.Background(), guestOwner); err != nil {
		t.Fatal("guest cart must survive a rejected merge")
	}

	locker.held = map[string]bool{}
	locker.acquired = nil
	if err := svc.Merge(context.Background(), guestToken, userID); err != nil {
		t.Fatalf("Merge: %v", err)
	}

	wantUser := ownerLockName(userOwner.Kind.String(), userOwner.Key)
	wantGuest := ownerLockName(guestOwner.Kind.String(), guestOwner.Key)
	if len(locker.acquired) != 2 || locker.acquired[0] != wantUser || locker.acquired[1] != wantGuest {
		t.Fatalf("acquired locks %v, want [%s %s]", locker.acquired, wantUser, wantGuest)
	}
}

func TestMergeCapsAtAvailableStock(t *testing.T) {
	fx := newCartFixture(t)
	userID := uuid.New()
	guestToken := "guest-token-3"
	product := fx.addProduct(1000, 4)

	if _, err := fx.svc.AddItem(context.Background(), UserOwner(userID), AddItemInput{ProductID: product.ID, Quantity: 3}); err != nil {
		t.Fatalf("seed user cart: %v", err)
	}
	if _, err := fx.svc.AddItem(context.Background(), GuestOwner(guestToken), AddItemInput{ProductID: product.ID, Quantity: 3}); err != nil {
		t.Fatalf("seed guest cart: %v", err)
	}

	if err := fx.svc.Merge(context.Background(), guestToken, userID); err != nil {
		t.Fatalf("Merge: %v", err)
	}

	priced, err := fx.svc.GetPriced(context.Background(), UserOwner(userID))
	if err != nil {
		t.Fatalf("GetPriced: %v", err)
	}
	if priced.Items[0].Quantity != 4 {
		t.Fatalf("merged quantity = %d, want stock cap 4", priced.Items[0].Quantity)
	}
}
