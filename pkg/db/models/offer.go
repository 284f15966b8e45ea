package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/soniamehta/trendora-backend/pkg/enums"
	"github.com/soniamehta/trendora-backend/pkg/types"
)

// Offer is a promotional rule written by the admin back office and read-only
// to the pricing engine. Empty targeting sets mean catalog-wide.
type Offer struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Name        string          `gorm:"column:name;not null"`
	Description *string         `gorm:"column:description"`
	OfferType   enums.OfferType `gorm:"column:offer_type;not null"`
	Rule        types.OfferRule `gorm:"column:rule;type:jsonb;serializer:json"`

	ProductIDs     []uuid.UUID `gorm:"column:product_ids;type:jsonb;serializer:json"`
	CategoryIDs    []uuid.UUID `gorm:"column:category_ids;type:jsonb;serializer:json"`
	SubcategoryIDs []uuid.UUID `gorm:"column:subcategory_ids;type:jsonb;serializer:json"`
	GenderIDs      []uuid.UUID `gorm:"column:gender_ids;type:jsonb;serializer:json"`

	StartDate time.Time `gorm:"column:start_date;not null"`
	EndDate   time.Time `gorm:"column:end_date;not null"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true"`
	Priority  int       `gorm:"column:priority;not null;default:0"`

	// Presentation-only fields, inert to pricing.
	Image             *string `gorm:"column:image"`
	HomepageTitle     *string `gorm:"column:homepage_title"`
	HomepageSubtitle  *string `gorm:"column:homepage_subtitle"`
	DisplayOnHomepage bool    `gorm:"column:display_on_homepage;not null;default:false"`
	DisplayInNavbar   bool    `gorm:"column:display_in_navbar;not null;default:false"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
