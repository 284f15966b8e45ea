package offers

import (
	"time"

	"github.com/google/uuid"

	"github.com/soniamehta/trendora-backend/pkg/types"
)

// CreateOfferInput carries the fields an admin supplies when writing an offer.
type CreateOfferInput struct {
	Name        string          `json:"name" validate:"required,min=2,max=120"`
	Description *string         `json:"description,omitempty"`
	OfferType   string          `json:"offerType" validate:"required"`
	Rule        types.OfferRule `json:"rule"`

	ProductIDs     []uuid.UUID `json:"productIds,omitempty"`
	CategoryIDs    []uuid.UUID `json:"categoryIds,omitempty"`
	SubcategoryIDs []uuid.UUID `json:"subcategoryIds,omitempty"`
	GenderIDs      []uuid.UUID `json:"genderIds,omitempty"`

	StartDate time.Time `json:"startDate" validate:"required"`
	EndDate   time.Time `json:"endDate" validate:"required"`
	IsActive  *bool     `json:"isActive,omitempty"`
	Priority  int       `json:"priority"`

	Image             *string `json:"image,omitempty"`
	HomepageTitle     *string `json:"homepageTitle,omitempty"`
	HomepageSubtitle  *string `json:"homepageSubtitle,omitempty"`
	DisplayOnHomepage bool    `json:"displayOnHomepage"`
	DisplayInNavbar   bool    `json:"displayInNavbar"`
}

// UpdateOfferInput is a sparse patch; nil fields are left untouched.
type UpdateOfferInput struct {
	Name        *string          `json:"name,omitempty" validate:"omitempty,min=2,max=120"`
	Description *string          `json:"description,omitempty"`
	OfferType   *string          `json:"offerType,omitempty"`
	Rule        *types.OfferRule `json:"rule,omitempty"`

	ProductIDs     *[]uuid.UUID `json:"productIds,omitempty"`
	CategoryIDs    *[]uuid.UUID `json:"categoryIds,omitempty"`
	SubcategoryIDs *[]uuid.UUID `json:"subcategoryIds,omitempty"`
	GenderIDs      *[]uuid.UUID `json:"genderIds,omitempty"`

	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	IsActive  *bool      `json:"isActive,omitempty"`
	Priority  *int       `json:"priority,omitempty"`

	Image             *string `json:"image,omitempty"`
	HomepageTitle     *string `json:"homepageTitle,omitempty"`
	HomepageSubtitle  *string `json:"homepageSubtitle,omitempty"`
	DisplayOnHomepage *bool   `json:"displayOnHomepage,omitempty"`
	DisplayInNavbar   *bool   `json:"displayInNavbar,omitempty"`
}
