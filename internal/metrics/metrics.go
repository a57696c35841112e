// Package metrics exposes register counters to Prometheus.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

const namespace = "trimtime"

// Scan results.
const (
	ScanAccepted  = "accepted"
	ScanMiss      = "miss"
	ScanThrottled = "throttled"
)

type Metrics struct {
	registry *prometheus.Registry

	salesCommitted prometheus.Counter
	salesRevenue   prometheus.Counter
	remoteWrites   *prometheus.CounterVec
	scans          *prometheus.CounterVec
	heldSales      prometheus.Gauge
	sessionExpired prometheus.Counter
}

// New registers every collector on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		salesCommitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sales_committed_total",
			Help:      "Sales committed at the register.",
		}),
		salesRevenue: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sales_revenue_total",
			Help:      "Sum of committed sale totals.",
		}),
		remoteWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "remote_writes_total",
			Help:      "Background writes to the remote store by collection, operation and result.",
		}, []string{"collection", "op", "result"}),
		scans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scans_total",
			Help:      "Barcode scans by result.",
		}, []string{"result"}),
		heldSales: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "held_sales",
			Help:      "Sales currently parked at the register.",
		}),
		sessionExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_expired_total",
			Help:      "Sessions ended by the expiry poll.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.salesCommitted,
		m.salesRevenue,
		m.remoteWrites,
		m.scans,
		m.heldSales,
		m.sessionExpired,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry is exposed for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) SaleCommitted(total decimal.Decimal) {
	if m == nil {
		return
	}
	m.salesCommitted.Inc()
	m.salesRevenue.Add(total.InexactFloat64())
}

func (m *Metrics) RemoteWrite(collection, op string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.remoteWrites.WithLabelValues(collection, op, result).Inc()
}

func (m *Metrics) Scan(result string) {
	if m == nil {
		return
	}
	m.scans.WithLabelValues(result).Inc()
}

func (m *Metrics) HeldSales(n int) {
	if m == nil {
		return
	}
	m.heldSales.Set(float64(n))
}

func (m *Metrics) SessionExpired() {
	if m == nil {
		return
	}
	m.sessionExpired.Inc()
}
