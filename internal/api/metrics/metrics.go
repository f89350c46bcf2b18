// Package metrics defines the business Prometheus metrics of the sweet shop
// API. It is the single source of truth for metric names, labels, and help
// strings.
//
// Build one Metrics per registry with New; the HTTP request metrics come from
// echoprometheus and share the same registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "sweetshop"

// Purchase outcomes used as the "result" label.
const (
	ResultCompleted    = "completed"
	ResultInsufficient = "insufficient_stock"
	ResultUnavailable  = "unavailable"
	ResultNotFound     = "not_found"
	ResultError        = "error"
)

type Metrics struct {
	// PurchasesTotal counts purchase attempts.
	// Label:
	//   - result: completed, insufficient_stock, unavailable, not_found or error
	PurchasesTotal *prometheus.CounterVec

	// UnitsSoldTotal counts units leaving stock through purchases.
	UnitsSoldTotal prometheus.Counter

	// RevenueTotal sums total_price of completed purchases.
	RevenueTotal prometheus.Counter

	// UnitsRestockedTotal counts units added by restocks.
	UnitsRestockedTotal prometheus.Counter

	// AuthEventsTotal counts authentication outcomes.
	// Labels:
	//   - action: register, login, create_admin
	//   - result: success or failure
	AuthEventsTotal *prometheus.CounterVec

	// CatalogWritesTotal counts admin catalog mutations.
	// Label:
	//   - op: create, update, delete
	CatalogWritesTotal *prometheus.CounterVec
}

// New creates and registers every metric with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		PurchasesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "purchases_total",
			Help:      "Total number of purchase attempts, by result.",
		}, []string{"result"}),
		UnitsSoldTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "units_sold_total",
			Help:      "Total number of units sold.",
		}),
		RevenueTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "revenue_total",
			Help:      "Sum of the total price of completed purchases.",
		}),
		UnitsRestockedTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "units_restocked_total",
			Help:      "Total number of units added by restocks.",
		}),
		AuthEventsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_events_total",
			Help:      "Authentication events, by action and result.",
		}, []string{"action", "result"}),
		CatalogWritesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_writes_total",
			Help:      "Admin catalog mutations, by operation.",
		}, []string{"op"}),
	}
}

// ObservePurchase records a completed purchase.
func (m *Metrics) ObservePurchase(quantity int, total float64) {
	m.PurchasesTotal.WithLabelValues(ResultCompleted).Inc()
	m.UnitsSoldTotal.Add(float64(quantity))
	m.RevenueTotal.Add(total)
}

// ObserveAuth records the outcome of an authentication action.
func (m *Metrics) ObserveAuth(action string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.AuthEventsTotal.WithLabelValues(action, result).Inc()
}
