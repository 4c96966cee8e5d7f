package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Revenue aggregation runs over delivered group orders only; completed but
// undelivered pools carry no delivery_date and stay out of the report. The
// snapshotted price_per_kg_cents on the order row drives the monthly numbers,
// while the lifetime counter on the user row is accrued at delivery time.
const (
	monthlyRevenueSQL = `
SELECT
  to_char(date_trunc('month', delivery_date), 'YYYY-MM') AS month,
  SUM(current_qty * price_per_kg_cents) AS revenue_cents,
  COUNT(*) AS order_count
FROM group_orders
WHERE supplier_id = ?
  AND status = 'delivered'
  AND delivery_date >= ?
GROUP BY month
ORDER BY month ASC
`

	topProductsSQL = `
SELECT
  p.id AS product_id,
  p.name AS product_name,
  SUM(o.current_qty) AS total_qty,
  SUM(o.current_qty * o.price_per_kg_cents) AS revenue_cents
FROM group_orders o
JOIN products p ON p.id = o.product_id
WHERE o.supplier_id = ?
  AND o.status = 'delivered'
  AND o.delivery_date >= ?
GROUP BY p.id, p.name
ORDER BY revenue_cents DESC
LIMIT ?
`

	totalRevenueSQL = `
SELECT COALESCE(revenue_cents, 0) FROM users WHERE id = ?
`
)

// Repository runs the supplier analytics aggregations.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds an analytics repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// MonthlyRevenue returns delivered revenue per month since the given time.
func (r *Repository) MonthlyRevenue(ctx context.Context, supplierID uuid.UUID, since time.Time) ([]MonthlyRevenuePoint, error) {
	var points []MonthlyRevenuePoint
	err := r.db.WithContext(ctx).
		Raw(monthlyRevenueSQL, supplierID, since).
		Scan(&points).Error
	if err != nil {
		return nil, err
	}
	return points, nil
}

// TopProducts ranks the supplier's products by delivered revenue.
func (r *Repository) TopProducts(ctx context.Context, supplierID uuid.UUID, since time.Time, limit int) ([]TopProduct, error) {
	var products []TopProduct
	err := r.db.WithContext(ctx).
		Raw(topProductsSQL, supplierID, since, limit).
		Scan(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// TotalRevenue reads the supplier's lifetime revenue counter.
func (r *Repository) TotalRevenue(ctx context.Context, supplierID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Raw(totalRevenueSQL, supplierID).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}
