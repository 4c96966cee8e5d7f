package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics records group order lifecycle activity.
type OrderMetrics struct {
	transitions  *prometheus.CounterVec
	poolFill     prometheus.Histogram
	revenueCents *prometheus.CounterVec
}

// NewOrderMetrics registers the group order metrics on the provided registerer.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "group_order_transitions_total",
		Help: "Group order status transitions by resulting status.",
	}, []string{"status"})
	poolFill := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "group_order_pool_fill_ratio",
		Help:    "Ratio of pooled quantity to target at the time an order leaves the open state.",
		Buckets: []float64{0.1, 0.25, 0.5, 0.75, 0.9, 1},
	})
	revenueCents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "supplier_revenue_cents_total",
		Help: "Revenue accrued to suppliers on delivery, in cents.",
	}, []string{"supplier_id"})
	reg.MustRegister(transitions, poolFill, revenueCents)
	return &OrderMetrics{
		transitions:  transitions,
		poolFill:     poolFill,
		revenueCents: revenueCents,
	}
}

// IncTransition increments the transition counter for the resulting status.
func (o *OrderMetrics) IncTransition(status string) {
	if o == nil || o.transitions == nil {
		return
	}
	o.transitions.WithLabelValues(normalizeLabel(status)).Inc()
}

// ObservePoolFill records how full the pool was when the order left open.
func (o *OrderMetrics) ObservePoolFill(ratio float64) {
	if o == nil || o.poolFill == nil {
		return
	}
	o.poolFill.Observe(ratio)
}

// AddRevenue accumulates delivered revenue for a supplier.
func (o *OrderMetrics) AddRevenue(supplierID string, cents int64) {
	if o == nil || o.revenueCents == nil || cents <= 0 {
		return
	}
	o.revenueCents.WithLabelValues(normalizeLabel(supplierID)).Add(float64(cents))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
