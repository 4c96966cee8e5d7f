package grouporders

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mandilink/mandilink-backend/api/middleware"
	internalorders "github.com/mandilink/mandilink-backend/internal/grouporders"
	"github.com/mandilink/mandilink-backend/pkg/logger"
	"github.com/mandilink/mandilink-backend/pkg/pagination"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

type stubOrdersService struct {
	create  func(ctx context.Context, vendor internalorders.VendorRef, input internalorders.CreateGroupOrderInput) (*internalorders.GroupOrderView, error)
	cancel  func(ctx context.Context, vendor internalorders.VendorRef, input internalorders.CancelOrderInput) (*internalorders.GroupOrderView, error)
	approve func(ctx context.Context, supplier internalorders.SupplierRef, orderID uuid.UUID) (*internalorders.GroupOrderView, error)
}

func (s *stubOrdersService) Create(ctx context.Context, vendor internalorders.VendorRef, input internalorders.CreateGroupOrderInput) (*internalorders.GroupOrderView, error) {
	return s.create(ctx, vendor, input)
}

func (s *stubOrdersService) Join(ctx context.Context, vendor internalorders.VendorRef, input internalorders.JoinGroupOrderInput) (*internalorders.GroupOrderView, error) {
	panic("unimplemented")
}

func (s *stubOrdersService) Modify(ctx context.Context, vendor internalorders.VendorRef, input internalorders.ModifyOrderInput) (*internalorders.GroupOrderView, error) {
	panic("unimplemented")
}

func (s *stubOrdersService) Cancel(ctx context.Context, vendor internalorders.VendorRef, input internalorders.CancelOrderInput) (*internalorders.GroupOrderView, error) {
	return s.cancel(ctx, vendor, input)
}

func (s *stubOrdersService) Approve(ctx context.Context, supplier internalorders.SupplierRef, orderID uuid.UUID) (*internalorders.GroupOrderView, error) {
	return s.approve(ctx, supplier, orderID)
}

func (s *stubOrdersService) Reject(ctx context.Context, supplier internalorders.SupplierRef, orderID uuid.UUID) (*internalorders.GroupOrderView, error) {
	panic("unimplemented")
}

func (s *stubOrdersService) Deliver(ctx context.Context, supplier internalorders.SupplierRef, orderID uuid.UUID) (*internalorders.GroupOrderView, error) {
	panic("unimplemented")
}

func (s *stubOrdersService) GetTracking(ctx context.Context, callerID uuid.UUID, orderID uuid.UUID) (*internalorders.TrackingInfo, error) {
	panic("unimplemented")
}

func (s *stubOrdersService) ListVendorOrders(ctx context.Context, vendor internalorders.VendorRef, params pagination.Params) (*internalorders.GroupOrderList, error) {
	panic("unimplemented")
}

func (s *stubOrdersService) ListSupplierOrders(ctx context.Context, supplier internalorders.SupplierRef, params pagination.Params, filters internalorders.SupplierOrderFilters) (*internalorders.GroupOrderList, error) {
	panic("unimplemented")
}

func orderRouteCtx(orderID string) *chi.Context {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("orderId", orderID)
	return routeCtx
}

func TestCreate(t *testing.T) {
	logg := testLogger()
	vendorID := uuid.New()
	productID := uuid.New()

	t.Run("missing user", func(t *testing.T) {
		body := `{"product_id":"` + productID.String() + `","target_qty":100,"quantity":20}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/vendor/orders", strings.NewReader(body))
		rec := httptest.NewRecorder()
		Create(&stubOrdersService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 when user missing, got %d", rec.Code)
		}
	})

	t.Run("invalid payload", func(t *testing.T) {
		ctx := middleware.WithUserID(context.Background(), vendorID.String())
		body := `{"product_id":"` + productID.String() + `","target_qty":0,"quantity":20}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/vendor/orders", strings.NewReader(body)).WithContext(ctx)
		rec := httptest.NewRecorder()
		Create(&stubOrdersService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for zero target, got %d", rec.Code)
		}
	})

	t.Run("invalid product id", func(t *testing.T) {
		ctx := middleware.WithUserID(context.Background(), vendorID.String())
		body := `{"product_id":"not-a-uuid","target_qty":100,"quantity":20}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/vendor/orders", strings.NewReader(body)).WithContext(ctx)
		rec := httptest.NewRecorder()
		Create(&stubOrdersService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for bad product id, got %d", rec.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		var gotVendor internalorders.VendorRef
		var gotInput internalorders.CreateGroupOrderInput
		stub := &stubOrdersService{
			create: func(ctx context.Context, vendor internalorders.VendorRef, input internalorders.CreateGroupOrderInput) (*internalorders.GroupOrderView, error) {
				gotVendor = vendor
				gotInput = input
				return &internalorders.GroupOrderView{ID: uuid.New(), ProductID: input.ProductID, CreatedBy: vendor.UserID}, nil
			},
		}

		ctx := middleware.WithUserID(context.Background(), vendorID.String())
		body := `{"product_id":"` + productID.String() + `","target_qty":100,"quantity":20}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/vendor/orders", strings.NewReader(body)).WithContext(ctx)
		rec := httptest.NewRecorder()
		Create(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201 on create, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotVendor.UserID != vendorID {
			t.Fatalf("expected vendor %s, got %s", vendorID, gotVendor.UserID)
		}
		if gotInput.ProductID != productID || gotInput.TargetQty != 100 || gotInput.Quantity != 20 {
			t.Fatalf("unexpected create input %+v", gotInput)
		}
	})
}

func TestCancel(t *testing.T) {
	logg := testLogger()
	vendorID := uuid.New()
	orderID := uuid.New()

	t.Run("invalid order id", func(t *testing.T) {
		ctx := middleware.WithUserID(context.Background(), vendorID.String())
		ctx = context.WithValue(ctx, chi.RouteCtxKey, orderRouteCtx("not-a-uuid"))
		req := httptest.NewRequest(http.MethodPost, "/api/v1/vendor/orders/not-a-uuid/cancel", nil).WithContext(ctx)
		rec := httptest.NewRecorder()
		Cancel(&stubOrdersService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for bad order id, got %d", rec.Code)
		}
	})

	t.Run("empty body allowed", func(t *testing.T) {
		var gotInput internalorders.CancelOrderInput
		stub := &stubOrdersService{
			cancel: func(ctx context.Context, vendor internalorders.VendorRef, input internalorders.CancelOrderInput) (*internalorders.GroupOrderView, error) {
				gotInput = input
				return &internalorders.GroupOrderView{ID: input.OrderID}, nil
			},
		}

		ctx := middleware.WithUserID(context.Background(), vendorID.String())
		ctx = context.WithValue(ctx, chi.RouteCtxKey, orderRouteCtx(orderID.String()))
		req := httptest.NewRequest(http.MethodPost, "/api/v1/vendor/orders/"+orderID.String()+"/cancel", nil).WithContext(ctx)
		rec := httptest.NewRecorder()
		Cancel(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 on cancel, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotInput.OrderID != orderID {
			t.Fatalf("expected order %s, got %s", orderID, gotInput.OrderID)
		}
		if gotInput.Message != nil {
			t.Fatalf("expected nil message for empty body, got %q", *gotInput.Message)
		}
	})

	t.Run("message forwarded", func(t *testing.T) {
		var gotInput internalorders.CancelOrderInput
		stub := &stubOrdersService{
			cancel: func(ctx context.Context, vendor internalorders.VendorRef, input internalorders.CancelOrderInput) (*internalorders.GroupOrderView, error) {
				gotInput = input
				return &internalorders.GroupOrderView{ID: input.OrderID}, nil
			},
		}

		ctx := middleware.WithUserID(context.Background(), vendorID.String())
		ctx = context.WithValue(ctx, chi.RouteCtxKey, orderRouteCtx(orderID.String()))
		body := `{"message":"supplier closed this week"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/vendor/orders/"+orderID.String()+"/cancel", strings.NewReader(body)).WithContext(ctx)
		rec := httptest.NewRecorder()
		Cancel(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 on cancel, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotInput.Message == nil || *gotInput.Message != "supplier closed this week" {
			t.Fatalf("expected message to be forwarded, got %+v", gotInput.Message)
		}
	})
}

func TestApprove(t *testing.T) {
	logg := testLogger()
	supplierID := uuid.New()
	orderID := uuid.New()

	t.Run("missing user", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), chi.RouteCtxKey, orderRouteCtx(orderID.String()))
		req := httptest.NewRequest(http.MethodPost, "/api/v1/supplier/orders/"+orderID.String()+"/approve", nil).WithContext(ctx)
		rec := httptest.NewRecorder()
		Approve(&stubOrdersService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 when user missing, got %d", rec.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		var gotSupplier internalorders.SupplierRef
		var gotOrder uuid.UUID
		stub := &stubOrdersService{
			approve: func(ctx context.Context, supplier internalorders.SupplierRef, id uuid.UUID) (*internalorders.GroupOrderView, error) {
				gotSupplier = supplier
				gotOrder = id
				return &internalorders.GroupOrderView{ID: id, SupplierApproved: true}, nil
			},
		}

		ctx := middleware.WithUserID(context.Background(), supplierID.String())
		ctx = context.WithValue(ctx, chi.RouteCtxKey, orderRouteCtx(orderID.String()))
		req := httptest.NewRequest(http.MethodPost, "/api/v1/supplier/orders/"+orderID.String()+"/approve", nil).WithContext(ctx)
		rec := httptest.NewRecorder()
		Approve(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 on approve, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotSupplier.UserID != supplierID || gotOrder != orderID {
			t.Fatalf("unexpected approve call %s %s", gotSupplier.UserID, gotOrder)
		}
	})
}
