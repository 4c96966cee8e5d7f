package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/mandilink/mandilink-backend/pkg/errors"
)

type stubAnalyticsRepo struct {
	monthly []MonthlyRevenuePoint
	top     []TopProduct
	total   int64

	monthlyErr error
	sinceSeen  time.Time
	limitSeen  int
}

func (s *stubAnalyticsRepo) MonthlyRevenue(ctx context.Context, supplierID uuid.UUID, since time.Time) ([]MonthlyRevenuePoint, error) {
	s.sinceSeen = since
	if s.monthlyErr != nil {
		return nil, s.monthlyErr
	}
	return s.monthly, nil
}

func (s *stubAnalyticsRepo) TopProducts(ctx context.Context, supplierID uuid.UUID, since time.Time, limit int) ([]TopProduct, error) {
	s.limitSeen = limit
	return s.top, nil
}

func (s *stubAnalyticsRepo) TotalRevenue(ctx context.Context, supplierID uuid.UUID) (int64, error) {
	return s.total, nil
}

func newAnalyticsService(t *testing.T, repo *stubAnalyticsRepo, at time.Time) Service {
	t.Helper()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}
	svc.(*service).now = func() time.Time { return at }
	return svc
}

func TestSupplierDashboardFillsMissingMonths(t *testing.T) {
	at := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	repo := &stubAnalyticsRepo{
		total: 1_250_000,
		monthly: []MonthlyRevenuePoint{
			{Month: "2026-03", RevenueCents: 400_000, OrderCount: 3},
			{Month: "2026-08", RevenueCents: 850_000, OrderCount: 7},
		},
		top: []TopProduct{
			{ProductID: uuid.New(), ProductName: "Red Onions", TotalQty: 300, RevenueCents: 900_000},
		},
	}
	svc := newAnalyticsService(t, repo, at)

	dashboard, err := svc.SupplierDashboard(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if dashboard.TotalRevenueCents != 1_250_000 {
		t.Fatalf("unexpected total %d", dashboard.TotalRevenueCents)
	}
	if len(dashboard.MonthlyRevenue) != 12 {
		t.Fatalf("expected 12 months got %d", len(dashboard.MonthlyRevenue))
	}
	if dashboard.MonthlyRevenue[0].Month != "2025-09" {
		t.Fatalf("series should start 12 months back, got %s", dashboard.MonthlyRevenue[0].Month)
	}
	if dashboard.MonthlyRevenue[11].Month != "2026-08" || dashboard.MonthlyRevenue[11].RevenueCents != 850_000 {
		t.Fatalf("current month not carried: %+v", dashboard.MonthlyRevenue[11])
	}
	if dashboard.MonthlyRevenue[6].Month != "2026-03" || dashboard.MonthlyRevenue[6].RevenueCents != 400_000 {
		t.Fatalf("march aggregation misplaced: %+v", dashboard.MonthlyRevenue[6])
	}
	if dashboard.MonthlyRevenue[1].RevenueCents != 0 || dashboard.MonthlyRevenue[1].OrderCount != 0 {
		t.Fatalf("gap months should be zero: %+v", dashboard.MonthlyRevenue[1])
	}
	if repo.limitSeen != topProductsLimit {
		t.Fatalf("expected top products limit %d got %d", topProductsLimit, repo.limitSeen)
	}
	if want := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC); !repo.sinceSeen.Equal(want) {
		t.Fatalf("expected since %s got %s", want, repo.sinceSeen)
	}
}

func TestSupplierDashboardRequiresIdentity(t *testing.T) {
	svc := newAnalyticsService(t, &stubAnalyticsRepo{}, time.Now().UTC())

	_, err := svc.SupplierDashboard(context.Background(), uuid.Nil)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized got %v", err)
	}
}

func TestSupplierDashboardWrapsRepoErrors(t *testing.T) {
	repo := &stubAnalyticsRepo{monthlyErr: context.DeadlineExceeded}
	svc := newAnalyticsService(t, repo, time.Now().UTC())

	_, err := svc.SupplierDashboard(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error got %v", err)
	}
}
