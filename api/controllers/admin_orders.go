package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/soniamehta/trendora-backend/api/middleware"
	"github.com/soniamehta/trendora-backend/api/responses"
	"github.com/soniamehta/trendora-backend/api/validators"
	"github.com/soniamehta/trendora-backend/internal/orders"
	"github.com/soniamehta/trendora-backend/pkg/enums"
	pkgerrors "github.com/soniamehta/trendora-backend/pkg/errors"
	"github.com/soniamehta/trendora-backend/pkg/logger"
	"github.com/soniamehta/trendora-backend/pkg/outbox"
)

// AdminOrderUpdateStatus moves an order through its state machine.
func AdminOrderUpdateStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		orderID, err := validators.URLParamUUID(r, "orderID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var body orders.UpdateStatusInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		adminID := middleware.UserIDFromContext(ctx)
		if adminID == uuid.Nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		order, err := svc.UpdateStatus(ctx, orderID, enums.OrderStatus(body.Status), &outbox.ActorRef{
			UserID: adminID,
			Role:   "admin",
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, toOrderResponse(order))
	}
}
