package analytics

import "github.com/google/uuid"

// MonthlyRevenuePoint is one month's delivered revenue for a supplier.
type MonthlyRevenuePoint struct {
	Month        string `json:"month"`
	RevenueCents int64  `json:"revenue_cents"`
	OrderCount   int    `json:"order_count"`
}

// TopProduct ranks a product by delivered quantity and revenue.
type TopProduct struct {
	ProductID    uuid.UUID `json:"product_id"`
	ProductName  string    `json:"product_name"`
	TotalQty     int       `json:"total_qty"`
	RevenueCents int64     `json:"revenue_cents"`
}

// SupplierDashboard bundles the supplier analytics payload.
type SupplierDashboard struct {
	TotalRevenueCents int64                 `json:"total_revenue_cents"`
	MonthlyRevenue    []MonthlyRevenuePoint `json:"monthly_revenue"`
	TopProducts       []TopProduct          `json:"top_products"`
}
