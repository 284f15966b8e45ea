package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/soniamehta/trendora-backend/api/middleware"
	"github.com/soniamehta/trendora-backend/api/responses"
	"github.com/soniamehta/trendora-backend/api/validators"
	"github.com/soniamehta/trendora-backend/internal/cart"
	pkgerrors "github.com/soniamehta/trendora-backend/pkg/errors"
	"github.com/soniamehta/trendora-backend/pkg/logger"
)

// cartOwner resolves the request to a cart owner: an authenticated user when
// the auth middleware ran, otherwise the guest session token.
func cartOwner(ctx context.Context) (cart.Owner, error) {
	if userID := middleware.UserIDFromContext(ctx); userID != uuid.Nil {
		return cart.UserOwner(userID), nil
	}
	if token := middleware.GuestTokenFromContext(ctx); token != "" {
		return cart.GuestOwner(token), nil
	}
	return cart.Owner{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
}

// CartGet returns the owner's cart priced at the current instant.
func CartGet(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		owner, err := cartOwner(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		priced, err := svc.GetPriced(ctx, owner)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, priced)
	}
}

// CartAddItem adds a product to the cart, summing quantities on repeats.
func CartAddItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		owner, err := cartOwner(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var body cart.AddItemInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		priced, err := svc.AddItem(ctx, owner, body)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, priced)
	}
}

// CartUpdateItem replaces a line's quantity.
func CartUpdateItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		owner, err := cartOwner(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		itemID, err := validators.URLParamUUID(r, "itemID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var body cart.UpdateItemInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		priced, err := svc.UpdateItem(ctx, owner, itemID, body)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, priced)
	}
}

// CartRemoveItem drops a line from the cart.
func CartRemoveItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		owner, err := cartOwner(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		itemID, err := validators.URLParamUUID(r, "itemID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		priced, err := svc.RemoveItem(ctx, owner, itemID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, priced)
	}
}

// CartClear empties the cart.
func CartClear(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		owner, err := cartOwner(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.Clear(ctx, owner); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "cleared"})
	}
}
