package enums

import "fmt"

// CartOwnerKind distinguishes durable user carts from session-scoped guest carts.
type CartOwnerKind string

const (
	CartOwnerKindUser  CartOwnerKind = "user"
	CartOwnerKindGuest CartOwnerKind = "guest"
)

var validCartOwnerKinds = []CartOwnerKind{
	CartOwnerKindUser,
	CartOwnerKindGuest,
}

// String implements fmt.Stringer.
func (c CartOwnerKind) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CartOwnerKind.
func (c CartOwnerKind) IsValid() bool {
	for _, candidate := range validCartOwnerKinds {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCartOwnerKind converts raw input into a CartOwnerKind.
func ParseCartOwnerKind(value string) (CartOwnerKind, error) {
	for _, candidate := range validCartOwnerKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid cart owner kind %q", value)
}
