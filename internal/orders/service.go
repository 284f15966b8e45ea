package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/soniamehta/trendora-backend/internal/cart"
	"github.com/soniamehta/trendora-backend/internal/catalog"
	"github.com/soniamehta/trendora-backend/internal/pricing"
	"github.com/soniamehta/trendora-backend/pkg/db"
	"github.com/soniamehta/trendora-backend/pkg/db/models"
	"github.com/soniamehta/trendora-backend/pkg/enums"
	pkgerrors "github.com/soniamehta/trendora-backend/pkg/errors"
	"github.com/soniamehta/trendora-backend/pkg/outbox"
	"github.com/soniamehta/trendora-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type cartLocker interface {
	AcquireCartLock(ctx context.Context, ownerKind, ownerKey string, ttl time.Duration) (bool, error)
	ReleaseCartLock(ctx context.Context, ownerKind, ownerKey string) error
}

type offerSource interface {
	ActiveOffers(ctx context.Context, now time.Time) ([]models.Offer, error)
}

// Service defines checkout and order administration.
type Service interface {
	Checkout(ctx context.Context, userID uuid.UUID, input CheckoutInput) (*models.Order, error)
	Get(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)
	List(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderList, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus, actor *outbox.ActorRef) (*models.Order, error)
}

type service struct {
	repo     Repository
	cartRepo cart.Repository
	catalog  catalog.Repository
	offers   offerSource
	locker   cartLocker
	tx       txRunner
	outbox   outboxPublisher
	lockTTL  time.Duration
	now      func() time.Time
}

// OrderCreatedEvent is emitted when checkout succeeds.
type OrderCreatedEvent struct {
	OrderID       uuid.UUID         `json:"orderId"`
	OrderNumber   string            `json:"orderNumber"`
	UserID        uuid.UUID         `json:"userId"`
	Status        enums.OrderStatus `json:"status"`
	SubtotalCents int64             `json:"subtotalCents"`
	DiscountCents int64             `json:"discountCents"`
	TotalCents    int64             `json:"totalCents"`
	ItemCount     int               `json:"itemCount"`
}

// OrderStatusChangedEvent is emitted on every administrative transition.
type OrderStatusChangedEvent struct {
	OrderID     uuid.UUID         `json:"orderId"`
	OrderNumber string            `json:"orderNumber"`
	UserID      uuid.UUID         `json:"userId"`
	From        enums.OrderStatus `json:"from"`
	To          enums.OrderStatus `json:"to"`
}

// NewService builds the orders service with the required dependencies.
func NewService(repo Repository, cartRepo cart.Repository, cat catalog.Repository, offers offerSource, locker cartLocker, tx txRunner, emitter outboxPublisher, lockTTL time.Duration) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if cartRepo == nil {
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
	if emitter == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if lockTTL <= 0 {
		lockTTL = 10 * time.Second
	}
	return &service{
		repo:     repo,
		cartRepo: cartRepo,
		catalog:  cat,
		offers:   offers,
		locker:   locker,
		tx:       tx,
		outbox:   emitter,
		lockTTL:  lockTTL,
		now:      time.Now,
	}, nil
}

// Checkout re-prices the caller's cart, freezes the result into an order
// snapshot, decrements stock and clears the cart, all in one transaction.
func (s *service) Checkout(ctx context.Context, userID uuid.UUID, input CheckoutInput) (*models.Order, error) {
	owner := cart.UserOwner(userID)

	ok, err := s.locker.AcquireCartLock(ctx, owner.Kind.String(), owner.Key, s.lockTTL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquiring cart lock")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "cart is being modified, retry shortly")
	}
	defer func() {
		_ = s.locker.ReleaseCartLock(context.WithoutCancel(ctx), owner.Kind.String(), owner.Key)
	}()

	cartRow, err := s.cartRepo.FindCartWithItems(ctx, owner)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "cart is empty")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
	}
	if len(cartRow.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "cart is empty")
	}

	products, err := s.loadProducts(ctx, cartRow.Items)
	if err != nil {
		return nil, err
	}
	if err := checkAvailability(cartRow.Items, products); err != nil {
		return nil, err
	}

	// Re-price immediately before the snapshot: an offer expiring between
	// cart view and checkout click must not leak into the order.
	now := s.now()
	activeOffers, err := s.offers.ActiveOffers(ctx, now)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading active offers")
	}
	lines := buildLines(cartRow.Items, products)
	priced := pricing.Price(lines, activeOffers, now)

	var created *models.Order
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		cat := s.catalog.WithTx(tx)
		carts := s.cartRepo.WithTx(tx)

		for _, item := range cartRow.Items {
			if err := cat.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		order := &models.Order{
			ID:              uuid.New(),
			OrderNumber:     newOrderNumber(now),
			UserID:          userID,
			Status:          enums.OrderStatusPending,
			SubtotalCents:   priced.Summary.SubtotalCents,
			DiscountCents:   priced.Summary.TotalDiscountCents,
			TotalCents:      priced.Summary.TotalCents,
			ShippingAddress: input.ShippingAddress,
			ContactEmail:    input.ContactEmail,
			ContactPhone:    input.ContactPhone,
			Notes:           input.Notes,
		}
		if _, err := repo.Create(ctx, order); err != nil {
			return err
		}

		items := snapshotItems(order.ID, priced, products)
		if err := repo.CreateItems(ctx, items); err != nil {
			return err
		}
		order.Items = items

		event := outbox.DomainEvent{
			EventType:     enums.OutboxEventOrderCreated,
			AggregateType: enums.OutboxAggregateOrder,
			AggregateID:   order.ID,
			Actor:         &outbox.ActorRef{UserID: userID, Role: "customer"},
			Data: OrderCreatedEvent{
				OrderID:       order.ID,
				OrderNumber:   order.OrderNumber,
				UserID:        userID,
				Status:        order.Status,
				SubtotalCents: order.SubtotalCents,
				DiscountCents: order.DiscountCents,
				TotalCents:    order.TotalCents,
				ItemCount:     priced.Summary.ItemCount,
			},
			Version:    1,
			OccurredAt: now,
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return err
		}

		if err := carts.DeleteItems(ctx, cartRow.ID); err != nil {
			return err
		}

		created = order
		return nil
	})
	if err != nil {
		if appErr := pkgerrors.As(err); appErr != nil {
			return nil, appErr
		}
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "order number collision, retry")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating order")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByIDForUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	return order, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderList, error) {
	list, err := s.repo.ListByUser(ctx, userID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}
	return list, nil
}

// UpdateStatus applies one administrative transition, validated against the
// order status machine.
func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus, actor *outbox.ActorRef) (*models.Order, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status")
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}

	if !order.Status.CanTransitionTo(status) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot transition order from %s to %s", order.Status, status))
	}

	from := order.Status
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).UpdateStatus(ctx, orderID, status); err != nil {
			return err
		}
		event := outbox.DomainEvent{
			EventType:     enums.OutboxEventOrderStatusChanged,
			AggregateType: enums.OutboxAggregateOrder,
			AggregateID:   order.ID,
			Actor:         actor,
			Data: OrderStatusChangedEvent{
				OrderID:     order.ID,
				OrderNumber: order.OrderNumber,
				UserID:      order.UserID,
				From:        from,
				To:          status,
			},
			Version:    1,
			OccurredAt: s.now(),
		}
		return s.outbox.Emit(ctx, tx, event)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating order status")
	}

	order.Status = status
	return order, nil
}

func (s *service) loadProducts(ctx context.Context, items []models.CartItem) (map[uuid.UUID]models.Product, error) {
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
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
	return byID, nil
}

// checkAvailability rejects checkout on any unavailable line with enough
// detail for the caller to adjust; it never silently drops an item.
func checkAvailability(items []models.CartItem, products map[uuid.UUID]models.Product) error {
	type problem struct {
		ProductID uuid.UUID `json:"productId"`
		Requested int       `json:"requested"`
		Available int       `json:"available"`
		Reason    string    `json:"reason"`
	}
	var problems []problem

	for _, item := range items {
		product, ok := products[item.ProductID]
		if !ok || !product.IsActive {
			problems = append(problems, problem{
				ProductID: item.ProductID,
				Requested: item.Quantity,
				Reason:    "product no longer available",
			})
			continue
		}
		if item.Quantity > product.StockQty {
			problems = append(problems, problem{
				ProductID: item.ProductID,
				Requested: item.Quantity,
				Available: product.StockQty,
				Reason:    "insufficient stock",
			})
		}
	}
	if len(problems) > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "cart contains unavailable items").
			WithDetails(map[string]any{"items": problems})
	}
	return nil
}

func buildLines(items []models.CartItem, products map[uuid.UUID]models.Product) []pricing.Line {
	lines := make([]pricing.Line, 0, len(items))
	for _, item := range items {
		lines = append(lines, pricing.Line{
			ItemID:                   item.ID,
			Product:                  products[item.ProductID],
			Quantity:                 item.Quantity,
			UnitPriceCents:           item.UnitPriceCents,
			UnitProductDiscountCents: item.ProductDiscountCents,
		})
	}
	return lines
}

// snapshotItems copies every priced line by value; the order must survive
// later catalog edits and deletions untouched.
func snapshotItems(orderID uuid.UUID, priced pricing.PricedCart, products map[uuid.UUID]models.Product) []models.OrderItem {
	items := make([]models.OrderItem, 0, len(priced.Items))
	for _, line := range priced.Items {
		product := products[line.ProductID]
		productID := line.ProductID

		unitDiscount := int64(0)
		if line.Quantity > 0 {
			unitDiscount = line.ProductDiscountCents / int64(line.Quantity)
		}
		images := make([]string, len(product.Images))
		copy(images, product.Images)

		items = append(items, models.OrderItem{
			ID:                 uuid.New(),
			OrderID:            orderID,
			ProductID:          &productID,
			ProductName:        product.Name,
			SKU:                product.SKU,
			Images:             images,
			Quantity:           line.Quantity,
			UnitPriceCents:     line.UnitPriceCents,
			DiscountPriceCents: line.UnitPriceCents - unitDiscount,
			DiscountCents:      line.OfferDiscountCents,
			LineTotalCents:     line.ItemTotalCents,
		})
	}
	return items
}

// newOrderNumber allocates a human-facing order number, distinct from the
// storage id.
func newOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("TD-%s-%s", now.UTC().Format("20060102"), suffix)
}
