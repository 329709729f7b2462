// Package metrics provides Prometheus-backed operation counters for the
// vault core, modeled on the teacher's metrics.Provider. Unlike the
// teacher, no HTTP handler is exposed: this module has no network
// server (see DESIGN.md) and the counters exist for an embedding
// application (the CLI, or a future UI host) to scrape or print.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Provider wraps a private Prometheus registry with the counters and
// histograms the vault manager records against.
type Provider struct {
	registry *prometheus.Registry

	UnlockAttempts   *prometheus.CounterVec
	OperationTotal   *prometheus.CounterVec
	RotationDuration prometheus.Histogram
	RotationItems    prometheus.Histogram
}

// NewProvider creates a metrics provider. namespace prefixes every
// metric name, matching the teacher's NewProvider(namespace) signature.
func NewProvider(namespace string) *Provider {
	registry := prometheus.NewRegistry()

	p := &Provider{
		registry: registry,
		UnlockAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unlock_attempts_total",
			Help:      "Unlock attempts by outcome (real, decoy, invalid_credential).",
		}, []string{"outcome"}),
		OperationTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Vault operations by name and outcome.",
		}, []string{"operation", "outcome"}),
		RotationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rotation_duration_seconds",
			Help:      "Wall-clock duration of completed rotations.",
			Buckets:   prometheus.DefBuckets,
		}),
		RotationItems: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rotation_items",
			Help:      "Number of items re-encrypted per rotation.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),
	}

	registry.MustRegister(p.UnlockAttempts, p.OperationTotal, p.RotationDuration, p.RotationItems)
	return p
}

// Registry exposes the private registry for an embedder that wants to
// gather metrics itself (e.g. write them to a file, or mount its own
// HTTP handler) without this package prescribing a transport.
func (p *Provider) Registry() *prometheus.Registry {
	return p.registry
}

// ObserveRotation records one completed rotation.
func (p *Provider) ObserveRotation(duration time.Duration, itemCount int) {
	p.RotationDuration.Observe(duration.Seconds())
	p.RotationItems.Observe(float64(itemCount))
}
