package kvstore

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts store operations by backend, operation and result.
type Metrics struct {
	ops      *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the store collectors with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "r2r",
			Subsystem: "config_store",
			Name:      "operations_total",
			Help:      "Configuration store operations by backend, operation and result.",
		}, []string{"backend", "op", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "r2r",
			Subsystem: "config_store",
			Name:      "operation_duration_seconds",
			Help:      "Configuration store operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"backend", "op"}),
	}
	for _, c := range []prometheus.Collector{m.ops, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Instrument wraps store so every call is recorded under backend.
func Instrument(store Store, backend string, m *Metrics) Store {
	if m == nil {
		return store
	}
	return &instrumented{store: store, backend: backend, metrics: m}
}

type instrumented struct {
	store   Store
	backend string
	metrics *Metrics
}

func (i *instrumented) observe(op string, start time.Time, result string) {
	i.metrics.duration.WithLabelValues(i.backend, op).Observe(time.Since(start).Seconds())
	i.metrics.ops.WithLabelValues(i.backend, op, result).Inc()
}

func (i *instrumented) Get(ctx context.Context, key string) (string, bool, error) {
	start := time.Now()
	v, ok, err := i.store.Get(ctx, key)
	switch {
	case err != nil:
		i.observe("get", start, "error")
	case !ok:
		i.observe("get", start, "miss")
	default:
		i.observe("get", start, "hit")
	}
	return v, ok, err
}

func (i *instrumented) Set(ctx context.Context, key, value string) error {
	start := time.Now()
	err := i.store.Set(ctx, key, value)
	result := "ok"
	if err != nil {
		result = "error"
	}
	i.observe("set", start, result)
	return err
}

func (i *instrumented) Close() error { return i.store.Close() }
