// Package metrics provides the Recorder interface, a noop implementation and
// a Prometheus-backed one.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Transaction outcomes passed to RecordTransaction.
const (
	OutcomeCommitted = "committed"
	OutcomeDiscarded = "discarded"
	OutcomeAborted   = "aborted"
)

// Recorder is the interface for recording client metrics.
type Recorder interface {
	RecordLatency(op string, d time.Duration)
	RecordError(op string)
	RecordTransaction(outcome string)
}

// Noop is a Recorder that discards all data.
type Noop struct{}

func (Noop) RecordLatency(op string, d time.Duration) {}
func (Noop) RecordError(op string)                    {}
func (Noop) RecordTransaction(outcome string)         {}

// Prometheus records command latency, command errors and transaction
// outcomes as Prometheus collectors.
type Prometheus struct {
	latency      *prometheus.HistogramVec
	errors       *prometheus.CounterVec
	transactions *prometheus.CounterVec
}

// NewPrometheus creates the collectors and registers them with reg. A nil
// reg uses prometheus.DefaultRegisterer.
func NewPrometheus(reg prometheus.Registerer) (*Prometheus, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	p := &Prometheus{
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "typedis",
				Subsystem: "command",
				Name:      "duration_seconds",
				Help:      "Command round-trip duration in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"command"},
		),
		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "typedis",
				Subsystem: "command",
				Name:      "errors_total",
				Help:      "Commands that failed with a transport or server error.",
			},
			[]string{"command"},
		),
		transactions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "typedis",
				Subsystem: "tx",
				Name:      "total",
				Help:      "Transactions by outcome.",
			},
			[]string{"outcome"},
		),
	}
	for _, c := range []prometheus.Collector{p.latency, p.errors, p.transactions} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Prometheus) RecordLatency(op string, d time.Duration) {
	p.latency.WithLabelValues(op).Observe(d.Seconds())
}

func (p *Prometheus) RecordError(op string) {
	p.errors.WithLabelValues(op).Inc()
}

func (p *Prometheus) RecordTransaction(outcome string) {
	p.transactions.WithLabelValues(outcome).Inc()
}
