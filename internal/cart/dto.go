package cart

import "github.com/google/uuid"

// AddItemInput is the payload for adding a product to a cart.
type AddItemInput struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

// UpdateItemInput is the payload for changing a line's quantity.
type UpdateItemInput struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}
