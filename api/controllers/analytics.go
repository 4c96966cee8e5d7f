package controllers

import (
	"net/http"

	"github.com/mandilink/mandilink-backend/api/responses"
	"github.com/mandilink/mandilink-backend/internal/analytics"
	pkgerrors "github.com/mandilink/mandilink-backend/pkg/errors"
	"github.com/mandilink/mandilink-backend/pkg/logger"
)

// SupplierDashboard serves revenue and top-product aggregates for the caller.
func SupplierDashboard(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analytics service unavailable"))
			return
		}

		supplierID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dashboard, err := svc.SupplierDashboard(r.Context(), supplierID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dashboard)
	}
}
