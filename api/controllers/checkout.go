package controllers

import (
	"net/http"

	"github.com/metapharm/metapharm-backend/api/responses"
	"github.com/metapharm/metapharm-backend/api/validators"
	"github.com/metapharm/metapharm-backend/internal/checkout"
	pkgerrors "github.com/metapharm/metapharm-backend/pkg/errors"
	"github.com/metapharm/metapharm-backend/pkg/logger"
)

type checkoutRequest struct {
	Phone           string `json:"phone" validate:"required,min=6"`
	DeliveryAddress string `json:"delivery_address" validate:"required,min=3"`
}

// Checkout converts the cart into one sale per pharmacy and empties the cart.
func Checkout(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		key, err := cartKeyParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Execute(r.Context(), key, checkout.CheckoutInput{
			Phone:   payload.Phone,
			Address: payload.DeliveryAddress,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
