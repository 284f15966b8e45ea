package pricing

import (
	"math"

	"github.com/soniamehta/trendora-backend/pkg/db/models"
	"github.com/soniamehta/trendora-backend/pkg/enums"
)

// ComputeDiscount returns the discount in cents one offer yields for a line
// of quantity units at unitPriceCents each. Pure; a malformed rule simply
// yields zero so one bad offer can never make a cart unpriceable.
func ComputeDiscount(offer models.Offer, unitPriceCents int64, quantity int) int64 {
	if quantity < 1 || unitPriceCents < 0 {
		return 0
	}
	rule := offer.Rule
	if quantity < rule.EffectiveMinQuantity() {
		return 0
	}

	subtotal := unitPriceCents * int64(quantity)
	var discount int64

	switch offer.OfferType {
	case enums.OfferTypePercentageOff:
		if rule.DiscountPercent < 0 || rule.DiscountPercent > 100 {
			return 0
		}
		discount = int64(math.Round(float64(subtotal) * rule.DiscountPercent / 100))

	case enums.OfferTypeFixedAmountOff:
		if rule.DiscountAmountCents < 0 {
			return 0
		}
		discount = rule.DiscountAmountCents

	case enums.OfferTypeBuyXGetY:
		if rule.BuyQuantity < 1 || rule.GetQuantity < 0 {
			return 0
		}
		groupSize := rule.BuyQuantity + rule.GetQuantity
		freeUnits := (quantity / groupSize) * rule.GetQuantity
		discount = int64(freeUnits) * unitPriceCents

	case enums.OfferTypeBundleDiscount:
		if rule.BundlePriceCents < 0 || rule.MinQuantity < 1 {
			return 0
		}
		groups := int64(quantity / rule.MinQuantity)
		perBundle := unitPriceCents*int64(rule.MinQuantity) - rule.BundlePriceCents
		if perBundle < 0 {
			perBundle = 0
		}
		discount = groups * perBundle

	default:
		return 0
	}

	// Never drive a line negative.
	if discount > subtotal {
		discount = subtotal
	}
	if discount < 0 {
		discount = 0
	}
	return discount
}
