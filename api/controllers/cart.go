package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/metapharm/metapharm-backend/api/responses"
	"github.com/metapharm/metapharm-backend/api/validators"
	cartsvc "github.com/metapharm/metapharm-backend/internal/cart"
	pkgerrors "github.com/metapharm/metapharm-backend/pkg/errors"
	"github.com/metapharm/metapharm-backend/pkg/logger"
)

// cartResponse is the cart payload returned by every cart endpoint so clients
// always see the full state after a mutation.
type cartResponse struct {
	Items []cartsvc.Item `json:"items"`
	Total int            `json:"total"`
}

// AlreadyInCart is surfaced as a notice on the response rather than an error.
type cartAddResponse struct {
	cartResponse
	AlreadyInCart bool `json:"already_in_cart,omitempty"`
}

func newCartResponse(items []cartsvc.Item) cartResponse {
	if items == nil {
		items = []cartsvc.Item{}
	}
	return cartResponse{Items: items, Total: cartsvc.Total(items)}
}

func cartKeyParam(r *http.Request) (string, error) {
	key := strings.TrimSpace(chi.URLParam(r, "cartKey"))
	if key == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "cart key required")
	}
	return key, nil
}

// CartFetch returns the current cart contents for a client cart key.
func CartFetch(store *cartsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart store unavailable"))
			return
		}

		key, err := cartKeyParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := store.Get(r.Context(), key)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(items))
	}
}

type cartAddRequest struct {
	ProductID    uuid.UUID `json:"product_id" validate:"required"`
	ProductName  string    `json:"product_name" validate:"required"`
	PharmacyID   uuid.UUID `json:"pharmacy_id" validate:"required"`
	PharmacyName string    `json:"pharmacy_name" validate:"required"`
	Price        int       `json:"price" validate:"min=0"`
}

// CartAdd appends a stock line picked from search results to the cart.
func CartAdd(store *cartsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart store unavailable"))
			return
		}

		key, err := cartKeyParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload cartAddRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := store.Add(r.Context(), key, cartsvc.AddInput{
			ProductID:    payload.ProductID,
			ProductName:  payload.ProductName,
			PharmacyID:   payload.PharmacyID,
			PharmacyName: payload.PharmacyName,
			Price:        payload.Price,
		})
		if err != nil {
			if errors.Is(err, cartsvc.ErrAlreadyInCart) {
				responses.WriteSuccess(w, cartAddResponse{cartResponse: newCartResponse(items), AlreadyInCart: true})
				return
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cartAddResponse{cartResponse: newCartResponse(items)})
	}
}

// CartRemoveItem drops a single line from the cart.
func CartRemoveItem(store *cartsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart store unavailable"))
			return
		}

		key, err := cartKeyParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		itemID := strings.TrimSpace(chi.URLParam(r, "itemId"))
		if itemID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "item id required"))
			return
		}

		items, err := store.Remove(r.Context(), key, itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(items))
	}
}

// CartClear empties the cart.
func CartClear(store *cartsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart store unavailable"))
			return
		}

		key, err := cartKeyParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := store.Clear(r.Context(), key); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(nil))
	}
}
