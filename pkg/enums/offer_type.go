package enums

import "fmt"

// OfferType identifies which discount rule variant an offer carries.
type OfferType string

const (
	OfferTypeBuyXGetY       OfferType = "buyXGetY"
	OfferTypeBundleDiscount OfferType = "bundleDiscount"
	OfferTypePercentageOff  OfferType = "percentageOff"
	OfferTypeFixedAmountOff OfferType = "fixedAmountOff"
)

var validOfferTypes = []OfferType{
	OfferTypeBuyXGetY,
	OfferTypeBundleDiscount,
	OfferTypePercentageOff,
	OfferTypeFixedAmountOff,
}

// String implements fmt.Stringer.
func (o OfferType) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OfferType.
func (o OfferType) IsValid() bool {
	for _, candidate := range validOfferTypes {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOfferType converts raw input into an OfferType.
func ParseOfferType(value string) (OfferType, error) {
	for _, candidate := range validOfferTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid offer type %q", value)
}
