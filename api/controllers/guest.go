package controllers

import (
	"net/http"

	"github.com/soniamehta/trendora-backend/api/responses"
	"github.com/soniamehta/trendora-backend/internal/guest"
	pkgerrors "github.com/soniamehta/trendora-backend/pkg/errors"
	"github.com/soniamehta/trendora-backend/pkg/logger"
)

// GuestSessionCreate mints a fresh guest session token. The token is the
// client's only handle on its cart and wishlist until registration.
func GuestSessionCreate(svc *guest.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "guest service unavailable"))
			return
		}

		token, err := svc.Create(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set("X-Guest-Token", token)
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]string{"guestToken": token})
	}
}
