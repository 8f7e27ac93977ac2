package kvstore

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct{ Store }

func (failingStore) Set(context.Context, string, string) error { return errors.New("READONLY") }

func TestInstrumentedCountsResults(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)
	ctx := context.Background()

	store := Instrument(NewMemory(), "memory", m)
	_, _, err = store.Get(ctx, "k")
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "k", "v"))
	_, _, err = store.Get(ctx, "k")
	require.NoError(t, err)

	failing := Instrument(failingStore{NewMemory()}, "memory", m)
	assert.Error(t, failing.Set(ctx, "k", "v"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ops.WithLabelValues("memory", "get", "miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ops.WithLabelValues("memory", "get", "hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ops.WithLabelValues("memory", "set", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ops.WithLabelValues("memory", "set", "error")))
}

func TestNewMetricsRejectsDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewMetrics(reg)
	require.NoError(t, err)
	_, err = NewMetrics(reg)
	assert.Error(t, err)
}

func TestInstrumentWithoutMetrics(t *testing.T) {
	inner := NewMemory()
	assert.Same(t, inner, Instrument(inner, "memory", nil))
}
