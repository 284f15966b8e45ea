package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/soniamehta/trendora-backend/pkg/enums"
	"github.com/soniamehta/trendora-backend/pkg/types"
)

// CheckoutInput carries the customer details for checkout; everything priced
// comes from the caller's cart, never from this payload.
type CheckoutInput struct {
	Notes           *string        `json:"notes,omitempty"`
	ShippingAddress *types.Address `json:"shippingAddress,omitempty"`
	ContactEmail    *string        `json:"contactEmail,omitempty" validate:"omitempty,email"`
	ContactPhone    *string        `json:"contactPhone,omitempty"`
}

// UpdateStatusInput is the admin payload for moving an order through its
// state machine.
type UpdateStatusInput struct {
	Status string `json:"status" validate:"required"`
}

// OrderSummary is the list-view projection of an order.
type OrderSummary struct {
	ID            uuid.UUID         `json:"id"`
	OrderNumber   string            `json:"orderNumber"`
	Status        enums.OrderStatus `json:"status"`
	SubtotalCents int64             `json:"subtotalCents"`
	DiscountCents int64             `json:"discountCents"`
	TotalCents    int64             `json:"totalCents"`
	Total         string            `json:"total"`
	ItemCount     int               `json:"itemCount"`
	CreatedAt     time.Time         `json:"createdAt"`
}

// OrderList wraps the paginated summaries plus the next page cursor.
type OrderList struct {
	Orders     []OrderSummary `json:"orders"`
	NextCursor string         `json:"nextCursor,omitempty"`
}
