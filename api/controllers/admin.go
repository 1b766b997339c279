package controllers

import (
	"net/http"

	"github.com/metapharm/metapharm-backend/api/responses"
	"github.com/metapharm/metapharm-backend/api/validators"
	authsvc "github.com/metapharm/metapharm-backend/internal/auth"
	pkgerrors "github.com/metapharm/metapharm-backend/pkg/errors"
	"github.com/metapharm/metapharm-backend/pkg/logger"
)

// AdminProvisionPharmacy creates a pharmacy with its first pharmacist account.
func AdminProvisionPharmacy(svc authsvc.ProvisionService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "provision service unavailable"))
			return
		}

		var payload authsvc.ProvisionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Provision(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
