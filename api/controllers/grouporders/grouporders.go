package grouporders

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mandilink/mandilink-backend/api/middleware"
	"github.com/mandilink/mandilink-backend/api/responses"
	"github.com/mandilink/mandilink-backend/api/validators"
	internalorders "github.com/mandilink/mandilink-backend/internal/grouporders"
	"github.com/mandilink/mandilink-backend/pkg/enums"
	pkgerrors "github.com/mandilink/mandilink-backend/pkg/errors"
	"github.com/mandilink/mandilink-backend/pkg/logger"
	"github.com/mandilink/mandilink-backend/pkg/pagination"
)

type createOrderRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	TargetQty int    `json:"target_qty" validate:"required,min=1"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

type joinOrderRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

type modifyOrderRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

type cancelOrderRequest struct {
	Message *string `json:"message,omitempty"`
}

// Create opens a new pooled order seeded with the caller's own quantity.
func Create(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "group orders service unavailable"))
			return
		}

		vendor, err := vendorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := uuid.Parse(strings.TrimSpace(payload.ProductID))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		order, err := svc.Create(r.Context(), vendor, internalorders.CreateGroupOrderInput{
			ProductID: productID,
			TargetQty: payload.TargetQty,
			Quantity:  payload.Quantity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// Join adds or merges the caller's contribution into an open pool.
func Join(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "group orders service unavailable"))
			return
		}

		vendor, err := vendorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := parseOrderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload joinOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Join(r.Context(), vendor, internalorders.JoinGroupOrderInput{
			OrderID:  orderID,
			Quantity: payload.Quantity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

// Modify replaces the caller's committed quantity on an open pool.
func Modify(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "group orders service unavailable"))
			return
		}

		vendor, err := vendorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := parseOrderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload modifyOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Modify(r.Context(), vendor, internalorders.ModifyOrderInput{
			OrderID:     orderID,
			NewQuantity: payload.Quantity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

// Cancel lets a participant shut down a pool that has not shipped yet.
func Cancel(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "group orders service unavailable"))
			return
		}

		vendor, err := vendorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := parseOrderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload cancelOrderRequest
		if r.ContentLength != 0 {
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		order, err := svc.Cancel(r.Context(), vendor, internalorders.CancelOrderInput{
			OrderID: orderID,
			Message: payload.Message,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

// Approve records the supplier's commitment to fulfil the pool.
func Approve(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return supplierDecision(svc, logg, svcApprove)
}

// Reject closes the pool without fulfilment.
func Reject(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return supplierDecision(svc, logg, svcReject)
}

// Deliver marks an approved pool as delivered and settles supplier revenue.
func Deliver(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return supplierDecision(svc, logg, svcDeliver)
}

type supplierAction func(svc internalorders.Service, r *http.Request, supplier internalorders.SupplierRef, orderID uuid.UUID) (*internalorders.GroupOrderView, error)

func svcApprove(svc internalorders.Service, r *http.Request, supplier internalorders.SupplierRef, orderID uuid.UUID) (*internalorders.GroupOrderView, error) {
	return svc.Approve(r.Context(), supplier, orderID)
}

func svcReject(svc internalorders.Service, r *http.Request, supplier internalorders.SupplierRef, orderID uuid.UUID) (*internalorders.GroupOrderView, error) {
	return svc.Reject(r.Context(), supplier, orderID)
}

func svcDeliver(svc internalorders.Service, r *http.Request, supplier internalorders.SupplierRef, orderID uuid.UUID) (*internalorders.GroupOrderView, error) {
	return svc.Deliver(r.Context(), supplier, orderID)
}

func supplierDecision(svc internalorders.Service, logg *logger.Logger, action supplierAction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "group orders service unavailable"))
			return
		}

		supplier, err := supplierFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := parseOrderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := action(svc, r, supplier, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

// Tracking returns the delivery timeline for a participant or the supplier.
func Tracking(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "group orders service unavailable"))
			return
		}

		callerID, err := callerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := parseOrderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		info, err := svc.GetTracking(r.Context(), callerID, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, info)
	}
}

// ListVendorOrders pages through every pool the caller participates in.
func ListVendorOrders(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "group orders service unavailable"))
			return
		}

		vendor, err := vendorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListVendorOrders(r.Context(), vendor, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// ListSupplierOrders pages through pools targeting the caller's products.
func ListSupplierOrders(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "group orders service unavailable"))
			return
		}

		supplier, err := supplierFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var filters internalorders.SupplierOrderFilters
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseGroupOrderStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
				return
			}
			filters.Status = &status
		}

		list, err := svc.ListSupplierOrders(r.Context(), supplier, params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

func vendorFromRequest(r *http.Request) (internalorders.VendorRef, error) {
	callerID, err := callerFromRequest(r)
	if err != nil {
		return internalorders.VendorRef{}, err
	}
	return internalorders.VendorRef{UserID: callerID}, nil
}

func supplierFromRequest(r *http.Request) (internalorders.SupplierRef, error) {
	callerID, err := callerFromRequest(r)
	if err != nil {
		return internalorders.SupplierRef{}, err
	}
	return internalorders.SupplierRef{UserID: callerID}, nil
}

func callerFromRequest(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	callerID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id")
	}
	return callerID, nil
}

func parseOrderID(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "orderId"))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	orderID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id")
	}
	return orderID, nil
}

func pageParams(r *http.Request) (pagination.Params, error) {
	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{
		Limit:  limit,
		Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
	}, nil
}
