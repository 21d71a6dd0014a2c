package report

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/climate-viz/internal/observability"
)

type countingExplorer struct {
	calls   int
	columns map[string]int
	err     error
}

func (e *countingExplorer) Explore(_ context.Context, dataset, column string) ([]byte, error) {
	e.calls++
	if e.columns == nil {
		e.columns = make(map[string]int)
	}
	e.columns[column]++
	if e.err != nil {
		return nil, e.err
	}
	return []byte(dataset + "/" + column), nil
}

func newPageCache(t *testing.T, inner Explorer, size int, metrics *observability.Metrics) *PageCache {
	t.Helper()
	cache, err := NewPageCache(inner, size, metrics)
	require.NoError(t, err)
	return cache
}

// explore fetches the given columns of the temperature dataset in order.
func explore(t *testing.T, cache *PageCache, columns ...string) {
	t.Helper()
	for _, c := range columns {
		_, err := cache.Explore(context.Background(), "temperature", c)
		require.NoError(t, err)
	}
}

func TestPageCache_Hit(t *testing.T) {
	inner := &countingExplorer{}
	metrics := observability.NewMetricsForTesting()
	cache := newPageCache(t, inner, 10, metrics)

	p1, err := cache.Explore(context.Background(), "temperature", "Nairobi")
	require.NoError(t, err)
	p2, err := cache.Explore(context.Background(), "temperature", "Nairobi")
	require.NoError(t, err)

	assert.Equal(t, p1, p2)
	assert.Equal(t, 1, inner.calls, "should only call inner once")
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.PageCache.WithLabelValues("hit")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.PageCache.WithLabelValues("miss")), 0)
}

func TestPageCache_ErrorsNotCached(t *testing.T) {
	inner := &countingExplorer{err: errors.New("boom")}
	cache := newPageCache(t, inner, 10, observability.NewMetricsForTesting())

	_, err := cache.Explore(context.Background(), "t", "c")
	require.Error(t, err)
	_, err = cache.Explore(context.Background(), "t", "c")
	require.Error(t, err)
	assert.Equal(t, 2, inner.calls)
}

func TestPageCache_KeyedByDatasetAndColumn(t *testing.T) {
	inner := &countingExplorer{}
	cache := newPageCache(t, inner, 10, observability.NewMetricsForTesting())

	a, err := cache.Explore(context.Background(), "temperature", "Nairobi")
	require.NoError(t, err)
	b, err := cache.Explore(context.Background(), "regional", "Nairobi")
	require.NoError(t, err)

	assert.Equal(t, "temperature/Nairobi", string(a))
	assert.Equal(t, "regional/Nairobi", string(b))
	assert.Equal(t, 2, inner.calls)
}

func TestPageCache_EvictsLeastRecentlyUsed(t *testing.T) {
	inner := &countingExplorer{}
	metrics := observability.NewMetricsForTesting()
	cache := newPageCache(t, inner, 2, metrics)

	explore(t, cache, "Nairobi", "Mombasa", "Kisumu") // evicts Nairobi
	explore(t, cache, "Mombasa", "Kisumu", "Nairobi")

	assert.Equal(t, 2, inner.columns["Nairobi"])
	assert.Equal(t, 1, inner.columns["Mombasa"])
	assert.Equal(t, 1, inner.columns["Kisumu"])
	assert.InDelta(t, 2, testutil.ToFloat64(metrics.PageCache.WithLabelValues("hit")), 0)
	assert.InDelta(t, 4, testutil.ToFloat64(metrics.PageCache.WithLabelValues("miss")), 0)
}

func TestPageCache_AccessPromotesPage(t *testing.T) {
	inner := &countingExplorer{}
	cache := newPageCache(t, inner, 2, observability.NewMetricsForTesting())

	explore(t, cache, "Nairobi", "Mombasa", "Nairobi", "Kisumu") // evicts Mombasa
	explore(t, cache, "Nairobi", "Mombasa")

	assert.Equal(t, 1, inner.columns["Nairobi"])
	assert.Equal(t, 2, inner.columns["Mombasa"])
}

func TestPageCache_MinimumSize(t *testing.T) {
	inner := &countingExplorer{}
	cache := newPageCache(t, inner, 0, observability.NewMetricsForTesting())

	explore(t, cache, "Nairobi", "Nairobi", "Mombasa", "Nairobi")
	assert.Equal(t, 2, inner.columns["Nairobi"])
	assert.Equal(t, 1, inner.columns["Mombasa"])
}
