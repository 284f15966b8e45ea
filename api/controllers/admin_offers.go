package controllers

import (
	"net/http"

	"github.com/soniamehta/trendora-backend/api/responses"
	"github.com/soniamehta/trendora-backend/api/validators"
	"github.com/soniamehta/trendora-backend/internal/offers"
	"github.com/soniamehta/trendora-backend/pkg/logger"
)

// AdminOfferCreate writes a new promotional offer.
func AdminOfferCreate(svc offers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var body offers.CreateOfferInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		offer, err := svc.Create(ctx, body)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, toOfferResponse(*offer))
	}
}

// AdminOfferUpdate applies a sparse patch to an offer.
func AdminOfferUpdate(svc offers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		offerID, err := validators.URLParamUUID(r, "offerID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var body offers.UpdateOfferInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		offer, err := svc.Update(ctx, offerID, body)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, toOfferResponse(*offer))
	}
}

// AdminOfferDelete removes an offer outright.
func AdminOfferDelete(svc offers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		offerID, err := validators.URLParamUUID(r, "offerID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.Delete(ctx, offerID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// AdminOfferGet fetches one offer, active or not.
func AdminOfferGet(svc offers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		offerID, err := validators.URLParamUUID(r, "offerID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		offer, err := svc.Get(ctx, offerID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, toOfferResponse(*offer))
	}
}

// AdminOffersList returns every offer regardless of window or kill switch.
func AdminOffersList(svc offers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		all, err := svc.ListAll(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"offers": toOfferResponses(all)})
	}
}
