package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObservePurchase(3, 38.97)
	m.ObservePurchase(1, 1.5)
	m.PurchasesTotal.WithLabelValues(ResultInsufficient).Inc()
	m.ObserveAuth("login", nil)
	m.ObserveAuth("login", errors.New("bad password"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.PurchasesTotal.WithLabelValues(ResultCompleted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PurchasesTotal.WithLabelValues(ResultInsufficient)))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.UnitsSoldTotal))
	assert.InDelta(t, 40.47, testutil.ToFloat64(m.RevenueTotal), 1e-9)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuthEventsTotal.WithLabelValues("login", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuthEventsTotal.WithLabelValues("login", "failure")))
}

func TestNew_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}
