package pricing

import (
	"time"

	"github.com/google/uuid"

	"github.com/soniamehta/trendora-backend/internal/offers"
	"github.com/soniamehta/trendora-backend/pkg/db/models"
	"github.com/soniamehta/trendora-backend/pkg/types"
)

// Line is one cart line handed to the aggregator, joined against the catalog
// by the caller.
type Line struct {
	ItemID                   uuid.UUID
	Product                  models.Product
	Quantity                 int
	UnitPriceCents           int64
	UnitProductDiscountCents int64
}

// PricedItem is one fully priced cart line. The offer discount is derived on
// every call; nothing here is read back from storage.
type PricedItem struct {
	ItemID               uuid.UUID  `json:"itemId"`
	ProductID            uuid.UUID  `json:"productId"`
	ProductName          string     `json:"productName"`
	SKU                  string     `json:"sku"`
	Images               []string   `json:"images,omitempty"`
	Quantity             int        `json:"quantity"`
	UnitPriceCents       int64      `json:"unitPriceCents"`
	ProductDiscountCents int64      `json:"productDiscountCents"`
	OfferDiscountCents   int64      `json:"offerDiscountCents"`
	AppliedOfferID       *uuid.UUID `json:"appliedOfferId,omitempty"`
	AppliedOfferName     *string    `json:"appliedOfferName,omitempty"`
	ItemSubtotalCents    int64      `json:"itemSubtotalCents"`
	ItemTotalCents       int64      `json:"itemTotalCents"`
	ItemTotal            string     `json:"itemTotal"`
}

// CartSummary aggregates the line totals; it is always derived, never stored.
type CartSummary struct {
	ItemCount          int    `json:"itemCount"`
	SubtotalCents      int64  `json:"subtotalCents"`
	TotalDiscountCents int64  `json:"totalDiscountCents"`
	TotalCents         int64  `json:"totalCents"`
	Subtotal           string `json:"subtotal"`
	TotalDiscount      string `json:"totalDiscount"`
	Total              string `json:"total"`
}

// PricedCart is the aggregator's output.
type PricedCart struct {
	Items   []PricedItem `json:"items"`
	Summary CartSummary  `json:"summary"`
}

// SelectOffer picks the winning offer for a line: the highest-precedence
// eligible offer whose computed discount is strictly positive. A zero-yield
// offer falls through to the next one, never to stacking.
func SelectOffer(eligible []models.Offer, unitPriceCents int64, quantity int) (*models.Offer, int64) {
	for i := range eligible {
		if d := ComputeDiscount(eligible[i], unitPriceCents, quantity); d > 0 {
			return &eligible[i], d
		}
	}
	return nil, 0
}

// Price computes the full priced cart from the lines and the live offer set.
// Pure and deterministic: the same lines, offers and instant always produce
// identical output.
func Price(lines []Line, activeOffers []models.Offer, now time.Time) PricedCart {
	out := PricedCart{Items: make([]PricedItem, 0, len(lines))}

	for _, line := range lines {
		eligible := offers.Eligible(activeOffers, line.Product, now)
		winner, offerDiscount := SelectOffer(eligible, line.UnitPriceCents, line.Quantity)

		qty := int64(line.Quantity)
		subtotal := line.UnitPriceCents * qty
		productDiscount := line.UnitProductDiscountCents * qty
		total := subtotal - productDiscount - offerDiscount
		if total < 0 {
			total = 0
		}

		item := PricedItem{
			ItemID:               line.ItemID,
			ProductID:            line.Product.ID,
			ProductName:          line.Product.Name,
			SKU:                  line.Product.SKU,
			Images:               line.Product.Images,
			Quantity:             line.Quantity,
			UnitPriceCents:       line.UnitPriceCents,
			ProductDiscountCents: productDiscount,
			OfferDiscountCents:   offerDiscount,
			ItemSubtotalCents:    subtotal,
			ItemTotalCents:       total,
			ItemTotal:            types.CentsToDecimalString(total),
		}
		if winner != nil {
			id := winner.ID
			name := winner.Name
			item.AppliedOfferID = &id
			item.AppliedOfferName = &name
		}

		out.Items = append(out.Items, item)
		out.Summary.ItemCount += line.Quantity
		out.Summary.SubtotalCents += subtotal
		out.Summary.TotalDiscountCents += productDiscount + offerDiscount
	}

	out.Summary.TotalCents = out.Summary.SubtotalCents - out.Summary.TotalDiscountCents
	if out.Summary.TotalCents < 0 {
		out.Summary.TotalCents = 0
	}
	out.Summary.Subtotal = types.CentsToDecimalString(out.Summary.SubtotalCents)
	out.Summary.TotalDiscount = types.CentsToDecimalString(out.Summary.TotalDiscountCents)
	out.Summary.Total = types.CentsToDecimalString(out.Summary.TotalCents)
	return out
}
