package controllers

import (
	"time"

	"github.com/google/uuid"

	"github.com/soniamehta/trendora-backend/pkg/db/models"
	"github.com/soniamehta/trendora-backend/pkg/enums"
	"github.com/soniamehta/trendora-backend/pkg/types"
)

// OfferResponse is the wire shape for promotional offers.
type OfferResponse struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	OfferType   enums.OfferType `json:"offerType"`
	Rule        types.OfferRule `json:"rule"`

	ProductIDs     []uuid.UUID `json:"productIds,omitempty"`
	CategoryIDs    []uuid.UUID `json:"categoryIds,omitempty"`
	SubcategoryIDs []uuid.UUID `json:"subcategoryIds,omitempty"`
	GenderIDs      []uuid.UUID `json:"genderIds,omitempty"`

	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	IsActive  bool      `json:"isActive"`
	Priority  int       `json:"priority"`

	Image             *string `json:"image,omitempty"`
	HomepageTitle     *string `json:"homepageTitle,omitempty"`
	HomepageSubtitle  *string `json:"homepageSubtitle,omitempty"`
	DisplayOnHomepage bool    `json:"displayOnHomepage"`
	DisplayInNavbar   bool    `json:"displayInNavbar"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toOfferResponse(offer models.Offer) OfferResponse {
	return OfferResponse{
		ID:                offer.ID,
		Name:              offer.Name,
		Description:       offer.Description,
		OfferType:         offer.OfferType,
		Rule:              offer.Rule,
		ProductIDs:        offer.ProductIDs,
		CategoryIDs:       offer.CategoryIDs,
		SubcategoryIDs:    offer.SubcategoryIDs,
		GenderIDs:         offer.GenderIDs,
		StartDate:         offer.StartDate,
		EndDate:           offer.EndDate,
		IsActive:          offer.IsActive,
		Priority:          offer.Priority,
		Image:             offer.Image,
		HomepageTitle:     offer.HomepageTitle,
		HomepageSubtitle:  offer.HomepageSubtitle,
		DisplayOnHomepage: offer.DisplayOnHomepage,
		DisplayInNavbar:   offer.DisplayInNavbar,
		CreatedAt:         offer.CreatedAt,
		UpdatedAt:         offer.UpdatedAt,
	}
}

func toOfferResponses(offers []models.Offer) []OfferResponse {
	out := make([]OfferResponse, 0, len(offers))
	for _, offer := range offers {
		out = append(out, toOfferResponse(offer))
	}
	return out
}

// OrderItemResponse is the wire shape for one snapshotted order line.
type OrderItemResponse struct {
	ID                 uuid.UUID  `json:"id"`
	ProductID          *uuid.UUID `json:"productId,omitempty"`
	ProductName        string     `json:"productName"`
	SKU                string     `json:"sku"`
	Images             []string   `json:"images,omitempty"`
	Quantity           int        `json:"quantity"`
	UnitPriceCents     int64      `json:"unitPriceCents"`
	DiscountPriceCents int64      `json:"discountPriceCents"`
	DiscountCents      int64      `json:"discountCents"`
	LineTotalCents     int64      `json:"lineTotalCents"`
	LineTotal          string     `json:"lineTotal"`
}

// OrderResponse is the wire shape for a placed order.
type OrderResponse struct {
	ID              uuid.UUID           `json:"id"`
	OrderNumber     string              `json:"orderNumber"`
	Status          enums.OrderStatus   `json:"status"`
	SubtotalCents   int64               `json:"subtotalCents"`
	DiscountCents   int64               `json:"discountCents"`
	TotalCents      int64               `json:"totalCents"`
	Subtotal        string              `json:"subtotal"`
	Discount        string              `json:"discount"`
	Total           string              `json:"total"`
	ShippingAddress *types.Address      `json:"shippingAddress,omitempty"`
	ContactEmail    *string             `json:"contactEmail,omitempty"`
	ContactPhone    *string             `json:"contactPhone,omitempty"`
	Notes           *string             `json:"notes,omitempty"`
	Items           []OrderItemResponse `json:"items"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

func toOrderResponse(order *models.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemResponse{
			ID:                 item.ID,
			ProductID:          item.ProductID,
			ProductName:        item.ProductName,
			SKU:                item.SKU,
			Images:             item.Images,
			Quantity:           item.Quantity,
			UnitPriceCents:     item.UnitPriceCents,
			DiscountPriceCents: item.DiscountPriceCents,
			DiscountCents:      item.DiscountCents,
			LineTotalCents:     item.LineTotalCents,
			LineTotal:          types.CentsToDecimalString(item.LineTotalCents),
		})
	}
	return OrderResponse{
		ID:              order.ID,
		OrderNumber:     order.OrderNumber,
		Status:          order.Status,
		SubtotalCents:   order.SubtotalCents,
		DiscountCents:   order.DiscountCents,
		TotalCents:      order.TotalCents,
		Subtotal:        types.CentsToDecimalString(order.SubtotalCents),
		Discount:        types.CentsToDecimalString(order.DiscountCents),
		Total:           types.CentsToDecimalString(order.TotalCents),
		ShippingAddress: order.ShippingAddress,
		ContactEmail:    order.ContactEmail,
		ContactPhone:    order.ContactPhone,
		Notes:           order.Notes,
		Items:           items,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
}
