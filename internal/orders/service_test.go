package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/soniamehta/trendora-backend/internal/cart"
	"github.com/soniamehta/trendora-backend/internal/catalog"
	"github.com/soniamehta/trendora-backend/pkg/db/models"
	"github.com/soniamehta/trendora-backend/pkg/enums"
	pkgerrors "github.com/soniamehta/trendora-backend/pkg/errors"
	"github.com/soniamehta/trendora-backend/pkg/outbox"
	"github.com/soniamehta/trendora-backend/pkg/pagination"
	"github.com/soniamehta/trendora-backend/pkg/types"
)

type fakeOrderRepo struct {
	orders map[uuid.UUID]*models.Order
	items  map[uuid.UUID][]models.OrderItem
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		orders: map[uuid.UUID]*models.Order{},
		items:  map[uuid.UUID][]models.OrderItem{},
	}
}

func (f *fakeOrderRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeOrderRepo) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	copied := *order
	f.orders[order.ID] = &copied
	return order, nil
}

func (f *fakeOrderRepo) CreateItems(ctx context.Context, items []models.OrderItem) error {
	for _, item := range items {
		f.items[item.OrderID] = append(f.items[item.OrderID], item)
	}
	return nil
}

func (f *fakeOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *order
	copied.Items = append([]models.OrderItem(nil), f.items[id]...)
	return &copied, nil
}

func (f *fakeOrderRepo) FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.Order, error) {
	order, err := f.FindByID(ctx, id)
	if err != nil || order.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return order, nil
}

func (f *fakeOrderRepo) ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderList, error) {
	list := &OrderList{}
	for _, order := range f.orders {
		if order.UserID == userID {
			list.Orders = append(list.Orders, OrderSummary{ID: order.ID, OrderNumber: order.OrderNumber})
		}
	}
	return list, nil
}

func (f *fakeOrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error {
	order, ok := f.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	order.Status = status
	return nil
}

type fakeCartRepo struct {
	carts map[cart.Owner]*models.Cart
	items map[uuid.UUID][]models.CartItem
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{
		carts: map[cart.Owner]*models.Cart{},
		items: map[uuid.UUID][]models.CartItem{},
	}
}

func (f *fakeCartRepo) WithTx(tx *gorm.DB) cart.Repository { return f }

func (f *fakeCartRepo) FindCart(ctx context.Context, owner cart.Owner) (*models.Cart, error) {
	if c, ok := f.carts[owner]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCartRepo) FindOrCreateCart(ctx context.Context, owner cart.Owner) (*models.Cart, error) {
	if c, ok := f.carts[owner]; ok {
		return c, nil
	}
	c := &models.Cart{ID: uuid.New(), OwnerKind: owner.Kind, OwnerKey: owner.Key}
	f.carts[owner] = c
	return c, nil
}

func (f *fakeCartRepo) FindCartWithItems(ctx context.Context, owner cart.Owner) (*models.Cart, error) {
	c, err := f.FindCart(ctx, owner)
	if err != nil {
		return nil, err
	}
	copied := *c
	copied.Items = append([]models.CartItem(nil), f.items[c.ID]...)
	return &copied, nil
}

func (f *fakeCartRepo) ListGuestCarts(ctx context.Context, updatedBefore time.Time) ([]models.Cart, error) {
	return nil, nil
}

func (f *fakeCartRepo) FindItem(ctx context.Context, cartID, itemID uuid.UUID) (*models.CartItem, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCartRepo) FindItemByProduct(ctx context.Context, cartID, productID uuid.UUID) (*models.CartItem, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCartRepo) CreateItem(ctx context.Context, item *models.CartItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	f.items[item.CartID] = append(f.items[item.CartID], *item)
	return nil
}

func (f *fakeCartRepo) UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error {
	return nil
}

func (f *fakeCartRepo) DeleteItem(ctx context.Context, itemID uuid.UUID) error { return nil }

func (f *fakeCartRepo) DeleteItems(ctx context.Context, cartID uuid.UUID) error {
	delete(f.items, cartID)
	return nil
}

func (f *fakeCartRepo) DeleteCart(ctx context.Context, cartID uuid.UUID) error {
	delete(f.items, cartID)
	return nil
}

type fakeCatalog struct {
	products map[uuid.UUID]*models.Product
}

func (f *fakeCatalog) WithTx(tx *gorm.DB) catalog.Repository { return f }

func (f *fakeCatalog) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
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
	p, ok := f.products[productID]
	if !ok || p.StockQty < qty {
		return pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock")
	}
	p.StockQty -= qty
	return nil
}

type stubOffers struct {
	offers []models.Offer
}

func (s *stubOffers) ActiveOffers(ctx context.Context, now time.Time) ([]models.Offer, error) {
	return s.offers, nil
}

type stubLocker struct{ held bool }

func (s *stubLocker) AcquireCartLock(ctx context.Context, kind, key string, ttl time.Duration) (bool, error) {
	return !s.held, nil
}

func (s *stubLocker) ReleaseCartLock(ctx context.Context, kind, key string) error { return nil }

type stubTx struct{}

func (stubTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error { return fn(nil) }

type recordingOutbox struct {
	events []outbox.DomainEvent
}

func (r *recordingOutbox) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	r.events = append(r.events, event)
	return nil
}

type orderFixture struct {
	svc      Service
	repo     *fakeOrderRepo
	cartRepo *fakeCartRepo
	catalog  *fakeCatalog
	offers   *stubOffers
	outbox   *recordingOutbox
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()

	fx := &orderFixture{
		repo:     newFakeOrderRepo(),
		cartRepo: newFakeCartRepo(),
		catalog:  &fakeCatalog{products: map[uuid.UUID]*models.Product{}},
		offers:   &stubOffers{},
		outbox:   &recordingOutbox{},
	}
	svc, err := NewService(fx.repo, fx.cartRepo, fx.catalog, fx.offers, &stubLocker{}, stubTx{}, fx.outbox, time.Second)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	fx.svc = svc
	return fx
}

func (fx *orderFixture) addProduct(priceCents int64, stock int) *models.Product {
	p := &models.Product{
		ID:         uuid.New(),
		SKU:        uuid.NewString()[:8],
		Name:       "Order Product",
		Images:     []string{"https://cdn.example.com/p.jpg"},
		PriceCents: priceCents,
		StockQty:   stock,
		IsActive:   true,
	}
	fx.catalog.products[p.ID] = p
	return p
}

func (fx *orderFixture) seedCart(userID uuid.UUID, product *models.Product, qty int) {
	owner := cart.UserOwner(userID)
	c, _ := fx.cartRepo.FindOrCreateCart(context.Background(), owner)
	_ = fx.cartRepo.CreateItem(context.Background(), &models.CartItem{
		CartID:         c.ID,
		ProductID:      product.ID,
		Quantity:       qty,
		UnitPriceCents: product.PriceCents,
	})
}

func TestCheckoutEmptyCart(t *testing.T) {
	fx := newOrderFixture(t)

	_, err := fx.svc.Checkout(context.Background(), uuid.New(), CheckoutInput{})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict for empty cart, got %v", err)
	}
}

func TestCheckoutCreatesSnapshotAndClearsCart(t *testing.T) {
	fx := newOrderFixture(t)
	userID := uuid.New()
	product := fx.addProduct(1000, 10)
	fx.seedCart(userID, product, 3)

	order, err := fx.svc.Checkout(context.Background(), userID, CheckoutInput{})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}

	if order.Status != enums.OrderStatusPending {
		t.Fatalf("status = %s, want pending", order.Status)
	}
	if order.OrderNumber == "" {
		t.Fatal("order number must be allocated")
	}
	if order.SubtotalCents != 3000 || order.TotalCents != 3000 {
		t.Fatalf("totals = %d/%d, want 3000/3000", order.SubtotalCents, order.TotalCents)
	}
	if len(order.Items) != 1 {
		t.Fatalf("expected 1 snapshot item, got %d", len(order.Items))
	}
	item := order.Items[0]
	if item.ProductName != product.Name || item.SKU != product.SKU {
		t.Fatalf("snapshot did not copy product fields: %+v", item)
	}

	// Stock decremented and cart cleared.
	if fx.catalog.products[product.ID].StockQty != 7 {
		t.Fatalf("stock = %d, want 7", fx.catalog.products[product.ID].StockQty)
	}
	owner := cart.UserOwner(userID)
	cartRow, err := fx.cartRepo.FindCartWithItems(context.Background(), owner)
	if err != nil {
		t.Fatalf("reload cart: %v", err)
	}
	if len(cartRow.Items) != 0 {
		t.Fatal("cart must be emptied by checkout")
	}

	// Outbox event queued.
	if len(fx.outbox.events) != 1 || fx.outbox.events[0].EventType != enums.OutboxEventOrderCreated {
		t.Fatalf("expected one order.created event, got %+v", fx.outbox.events)
	}
}

func TestCheckoutAppliesOfferAtCheckoutTime(t *testing.T) {
	fx := newOrderFixture(t)
	userID := uuid.New()
	product := fx.addProduct(1000, 10)
	fx.seedCart(userID, product, 2)

	now := time.Now()
	fx.offers.offers = []models.Offer{{
		ID:        uuid.New(),
		Name:      "Checkout Sale",
		OfferType: enums.OfferTypePercentageOff,
		Rule:      types.OfferRule{DiscountPercent: 25},
		StartDate: now.Add(-time.Hour),
		EndDate:   now.Add(time.Hour),
		IsActive:  true,
	}}

	order, err := fx.svc.Checkout(context.Background(), userID, CheckoutInput{})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if order.DiscountCents != 500 {
		t.Fatalf("discount = %d, want 500", order.DiscountCents)
	}
	if order.TotalCents != 1500 {
		t.Fatalf("total = %d, want 1500", order.TotalCents)
	}
	if order.Items[0].DiscountCents != 500 {
		t.Fatalf("item discount = %d, want 500", order.Items[0].DiscountCents)
	}
}

func TestCheckoutRejectsOutOfStock(t *testing.T) {
	fx := newOrderFixture(t)
	userID := uuid.New()
	product := fx.addProduct(1000, 1)
	fx.seedCart(userID, product, 2)

	_, err := fx.svc.Checkout(context.Background(), userID, CheckoutInput{})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	if appErr.Details() == nil {
		t.Fatal("conflict must carry enough detail to let the caller adjust")
	}
	if len(fx.repo.orders) != 0 {
		t.Fatal("no order may be written on a failed checkout")
	}
}

func TestSnapshotSurvivesCatalogEdits(t *testing.T) {
	fx := newOrderFixture(t)
	userID := uuid.New()
	product := fx.addProduct(1000, 10)
	fx.seedCart(userID, product, 1)

	order, err := fx.svc.Checkout(context.Background(), userID, CheckoutInput{})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}

	// Mutate the catalog after checkout.
	fx.catalog.products[product.ID].Name = "Renamed"
	fx.catalog.products[product.ID].PriceCents = 9999

	reloaded, err := fx.svc.Get(context.Background(), userID, order.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if reloaded.Items[0].ProductName != "Order Product" {
		t.Fatalf("snapshot name mutated: %s", reloaded.Items[0].ProductName)
	}
	if reloaded.Items[0].UnitPriceCents != 1000 {
		t.Fatalf("snapshot price mutated: %d", reloaded.Items[0].UnitPriceCents)
	}
}

func TestUpdateStatusValidTransition(t *testing.T) {
	fx := newOrderFixture(t)
	userID := uuid.New()
	product := fx.addProduct(1000, 10)
	fx.seedCart(userID, product, 1)

	order, err := fx.svc.Checkout(context.Background(), userID, CheckoutInput{})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}

	updated, err := fx.svc.UpdateStatus(context.Background(), order.ID, enums.OrderStatusConfirmed, nil)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if updated.Status != enums.OrderStatusConfirmed {
		t.Fatalf("status = %s, want confirmed", updated.Status)
	}

	last := fx.outbox.events[len(fx.outbox.events)-1]
	if last.EventType != enums.OutboxEventOrderStatusChanged {
		t.Fatalf("expected status-changed event, got %s", last.EventType)
	}
}

func TestUpdateStatusInvalidTransition(t *testing.T) {
	fx := newOrderFixture(t)
	userID := uuid.New()
	product := fx.addProduct(1000, 10)
	fx.seedCart(userID, product, 1)

	order, err := fx.svc.Checkout(context.Background(), userID, CheckoutInput{})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}

	_, err = fx.svc.UpdateStatus(context.Background(), order.ID, enums.OrderStatusDelivered, nil)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict for pending→delivered, got %v", err)
	}
}

func TestGetScopedToOwner(t *testing.T) {
	fx := newOrderFixture(t)
	userID := uuid.New()
	product := fx.addProduct(1000, 10)
	fx.seedCart(userID, product, 1)

	order, err := fx.svc.Checkout(context.Background(), userID, CheckoutInput{})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}

	_, err = fx.svc.Get(context.Background(), uuid.New(), order.ID)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for other user, got %v", err)
	}
}
