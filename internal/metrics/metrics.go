// Package metrics holds the Prometheus collectors of the server.
//
// All methods are safe to call on a nil *Metrics, which records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "snapsplit"

// Analysis outcomes.
const (
	OutcomeParsed   = "parsed"
	OutcomeSentinel = "sentinel"
	OutcomeCached   = "cached"
	OutcomeError    = "error"
)

type Metrics struct {
	registry *prometheus.Registry

	rpcRequests     *prometheus.CounterVec
	rpcDuration     *prometheus.HistogramVec
	analyses        *prometheus.CounterVec
	upstreamLatency prometheus.Histogram
	breakdowns      prometheus.Counter
	billsFinalized  prometheus.Counter
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		rpcRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_requests_total",
			Help:      "Split flow RPCs by procedure and result code.",
		}, []string{"procedure", "code"}),
		rpcDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "Split flow RPC latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
		analyses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "receipt_analyses_total",
			Help:      "Receipt analyses by outcome.",
		}, []string{"outcome"}),
		upstreamLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Latency of the vision model request.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
		}),
		breakdowns: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "breakdowns_total",
			Help:      "Breakdowns computed.",
		}),
		billsFinalized: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bills_finalized_total",
			Help:      "Bills added to a trip.",
		}),
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Gatherer exposes the registry, for tests and custom exporters.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	if m == nil {
		return prometheus.NewRegistry()
	}
	return m.registry
}

func (m *Metrics) ObserveRPC(procedure, code string, d time.Duration) {
	if m == nil {
		return
	}
	m.rpcRequests.WithLabelValues(procedure, code).Inc()
	m.rpcDuration.WithLabelValues(procedure).Observe(d.Seconds())
}

func (m *Metrics) ObserveAnalysis(outcome string) {
	if m == nil {
		return
	}
	m.analyses.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveUpstream(d time.Duration) {
	if m == nil {
		return
	}
	m.upstreamLatency.Observe(d.Seconds())
}

func (m *Metrics) BreakdownComputed() {
	if m == nil {
		return
	}
	m.breakdowns.Inc()
}

func (m *Metrics) BillFinalized() {
	if m == nil {
		return
	}
	m.billsFinalized.Inc()
}
