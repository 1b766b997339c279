package controllers

import (
	"net/http"
	"strings"

	"github.com/metapharm/metapharm-backend/api/responses"
	"github.com/metapharm/metapharm-backend/api/validators"
	"github.com/metapharm/metapharm-backend/internal/catalog"
	pkgerrors "github.com/metapharm/metapharm-backend/pkg/errors"
	"github.com/metapharm/metapharm-backend/pkg/geo"
	"github.com/metapharm/metapharm-backend/pkg/logger"
)

// PublicPharmacies lists pharmacies for the map view, optionally filtered to
// on-duty ones and annotated with distance from the caller's position.
func PublicPharmacies(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		opts := catalog.ListPharmaciesOptions{}

		onDuty, _, err := validators.ParseQueryBool(r, "on_duty")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		opts.OnDutyOnly = onDuty

		lat, hasLat, err := validators.ParseQueryFloat(r, "lat")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		lng, hasLng, err := validators.ParseQueryFloat(r, "lng")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if hasLat != hasLng {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "lat and lng must be supplied together"))
			return
		}
		if hasLat {
			opts.Origin = &geo.Point{Lat: lat, Lng: lng}
		}

		result, err := svc.ListPharmacies(r.Context(), opts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// PublicSearch finds pharmacies holding products matching the query term.
func PublicSearch(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		term := strings.TrimSpace(r.URL.Query().Get("q"))

		result, err := svc.Search(r.Context(), term)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
