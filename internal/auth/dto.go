package auth

import (
	"time"

	"github.com/google/uuid"
)

// RegisterInput is the signup payload. A guest token, when present, triggers
// the one-time cart and wishlist merge.
type RegisterInput struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8,max=128"`
	Name       string `json:"name" validate:"required,min=2,max=120"`
	GuestToken string `json:"guestToken,omitempty"`
}

// LoginInput is the credentials payload, with the same optional merge hook.
type LoginInput struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	GuestToken string `json:"guestToken,omitempty"`
}

// UserInfo is the public projection of an account.
type UserInfo struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	IsAdmin   bool      `json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
}

// Result carries the minted access token plus the account it belongs to.
type Result struct {
	Token string   `json:"token"`
	User  UserInfo `json:"user"`
}
