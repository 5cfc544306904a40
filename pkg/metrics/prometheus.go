// Package metrics implements the domain Metrics interface on Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder bundles the service-level collectors. Construct it once per
// process; promauto panics on duplicate registration.
type Recorder struct {
	messagesSent *prometheus.CounterVec
	errorsTotal  *prometheus.CounterVec
	lastPrice    *prometheus.GaugeVec
	latency      *prometheus.HistogramVec
	signals      *prometheus.CounterVec
}

func New() *Recorder {
	r := &Recorder{}
	r.messagesSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marketintel_messages_sent_total",
		Help: "Messages delivered per backend and symbol.",
	}, []string{"backend", "symbol"})
	r.errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marketintel_errors_total",
		Help: "Errors by kind.",
	}, []string{"type"})
	r.lastPrice = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "marketintel_last_price",
		Help: "Last observed trade price per symbol.",
	}, []string{"symbol"})
	r.latency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "marketintel_operation_duration_seconds",
		Help:    "Operation latency in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	r.signals = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marketintel_signals_total",
		Help: "Trading signals generated, by action and risk level.",
	}, []string{"action", "risk_level"})
	return r
}

func (r *Recorder) RecordMessageSent(backend, symbol string) {
	r.messagesSent.WithLabelValues(backend, symbol).Inc()
}

func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

func (r *Recorder) RecordLastPrice(symbol string, price float64) {
	r.lastPrice.WithLabelValues(symbol).Set(price)
}

func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

func (r *Recorder) RecordSignal(action, riskLevel string) {
	r.signals.WithLabelValues(action, riskLevel).Inc()
}
