package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/soniamehta/trendora-backend/api/responses"
	pkgerrors "github.com/soniamehta/trendora-backend/pkg/errors"
	"github.com/soniamehta/trendora-backend/pkg/logger"
)

const guestTokenHeader = "X-Guest-Token"

// guestValidator reports whether a guest session token is still alive.
type guestValidator interface {
	Validate(ctx context.Context, token string) (bool, error)
}

// GuestSession requires a live guest token on the request and seeds the
// context with it. Expired or unknown tokens are treated as unauthorized so
// clients know to mint a fresh session.
func GuestSession(sessions guestValidator, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimSpace(r.Header.Get(guestTokenHeader))
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing guest token"))
				return
			}

			live, err := sessions.Validate(r.Context(), token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validating guest session"))
				return
			}
			if !live {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "guest session expired"))
				return
			}

			ctx := WithGuestToken(r.Context(), token)
			if logg != nil {
				ctx = logg.WithGuestToken(ctx, token)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
