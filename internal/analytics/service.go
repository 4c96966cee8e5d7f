package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/mandilink/mandilink-backend/pkg/errors"
)

const (
	dashboardMonths  = 12
	topProductsLimit = 5
)

// Service assembles supplier-facing analytics.
type Service interface {
	SupplierDashboard(ctx context.Context, supplierID uuid.UUID) (*SupplierDashboard, error)
}

type repository interface {
	MonthlyRevenue(ctx context.Context, supplierID uuid.UUID, since time.Time) ([]MonthlyRevenuePoint, error)
	TopProducts(ctx context.Context, supplierID uuid.UUID, since time.Time, limit int) ([]TopProduct, error)
	TotalRevenue(ctx context.Context, supplierID uuid.UUID) (int64, error)
}

type service struct {
	repo repository
	now  func() time.Time
}

// NewService constructs an analytics service instance.
func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("analytics repository required")
	}
	return &service{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) SupplierDashboard(ctx context.Context, supplierID uuid.UUID) (*SupplierDashboard, error) {
	if supplierID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	now := s.now()
	since := monthFloor(now).AddDate(0, -(dashboardMonths - 1), 0)

	total, err := s.repo.TotalRevenue(ctx, supplierID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "total revenue")
	}
	monthly, err := s.repo.MonthlyRevenue(ctx, supplierID, since)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "monthly revenue")
	}
	top, err := s.repo.TopProducts(ctx, supplierID, since, topProductsLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "top products")
	}

	return &SupplierDashboard{
		TotalRevenueCents: total,
		MonthlyRevenue:    fillMissingMonths(monthly, since, now),
		TopProducts:       top,
	}, nil
}

// fillMissingMonths pads the aggregation with zero rows so clients always get
// a contiguous 12 month series.
func fillMissingMonths(points []MonthlyRevenuePoint, since, until time.Time) []MonthlyRevenuePoint {
	byMonth := make(map[string]MonthlyRevenuePoint, len(points))
	for _, point := range points {
		byMonth[point.Month] = point
	}

	filled := make([]MonthlyRevenuePoint, 0, dashboardMonths)
	for cursor := monthFloor(since); !cursor.After(until); cursor = cursor.AddDate(0, 1, 0) {
		key := cursor.Format("2006-01")
		if point, ok := byMonth[key]; ok {
			filled = append(filled, point)
			continue
		}
		filled = append(filled, MonthlyRevenuePoint{Month: key})
	}
	return filled
}

func monthFloor(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
