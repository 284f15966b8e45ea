package types

import (
	"fmt"

	"github.com/soniamehta/trendora-backend/pkg/enums"
)

// OfferRule is the discount rule attached to an offer, stored as JSONB.
// Which fields are meaningful depends on the offer type; Validate enforces
// the variant's constraints at construction so malformed rules never reach
// the pricing engine.
type OfferRule struct {
	// buyXGetY
	BuyQuantity int `json:"buyQuantity,omitempty"`
	GetQuantity int `json:"getQuantity,omitempty"`

	// bundleDiscount
	BundlePriceCents int64 `json:"bundlePriceCents,omitempty"`

	// percentageOff
	DiscountPercent float64 `json:"discountPercent,omitempty"`

	// fixedAmountOff
	DiscountAmountCents int64 `json:"discountAmountCents,omitempty"`

	// All variants. Quantity threshold required to qualify; zero means 1.
	MinQuantity int `json:"minQuantity,omitempty"`
}

// EffectiveMinQuantity returns the qualification threshold, defaulting to 1.
func (r OfferRule) EffectiveMinQuantity() int {
	if r.MinQuantity < 1 {
		return 1
	}
	return r.MinQuantity
}

// Validate checks the rule fields against the given offer type.
func (r OfferRule) Validate(offerType enums.OfferType) error {
	if r.MinQuantity < 0 {
		return fmt.Errorf("minQuantity cannot be negative")
	}

	switch offerType {
	case enums.OfferTypeBuyXGetY:
		if r.BuyQuantity < 1 {
			return fmt.Errorf("buyQuantity must be at least 1")
		}
		if r.GetQuantity < 0 {
			return fmt.Errorf("getQuantity cannot be negative")
		}
	case enums.OfferTypeBundleDiscount:
		if r.BundlePriceCents < 0 {
			return fmt.Errorf("bundlePriceCents cannot be negative")
		}
		if r.MinQuantity < 1 {
			return fmt.Errorf("bundleDiscount requires minQuantity of at least 1")
		}
	case enums.OfferTypePercentageOff:
		if r.DiscountPercent < 0 || r.DiscountPercent > 100 {
			return fmt.Errorf("discountPercent must be between 0 and 100")
		}
	case enums.OfferTypeFixedAmountOff:
		if r.DiscountAmountCents < 0 {
			return fmt.Errorf("discountAmountCents cannot be negative")
		}
	default:
		return fmt.Errorf("unknown offer type %q", offerType)
	}
	return nil
}
