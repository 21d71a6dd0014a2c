package report

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/couchcryptid/climate-viz/internal/observability"
)

// Explorer renders ad-hoc pages for one dataset column.
type Explorer interface {
	Explore(ctx context.Context, dataset, column string) ([]byte, error)
}

// PageCache wraps an Explorer with an in-memory LRU cache. Datasets are
// immutable once loaded, so entries never go stale.
type PageCache struct {
	inner   Explorer
	cache   *lru.Cache[string, []byte]
	metrics *observability.Metrics
}

// NewPageCache creates a cache decorator holding up to maxEntries pages.
// Sizes below one hold a single page.
func NewPageCache(inner Explorer, maxEntries int, metrics *observability.Metrics) (*PageCache, error) {
	cache, err := lru.New[string, []byte](max(maxEntries, 1))
	if err != nil {
		return nil, fmt.Errorf("page cache: %w", err)
	}
	return &PageCache{inner: inner, cache: cache, metrics: metrics}, nil
}

func (c *PageCache) Explore(ctx context.Context, dataset, column string) ([]byte, error) {
	key := dataset + "|" + column
	if page, ok := c.cache.Get(key); ok {
		c.metrics.PageCache.WithLabelValues("hit").Inc()
		return page, nil
	}
	c.metrics.PageCache.WithLabelValues("miss").Inc()

	page, err := c.inner.Explore(ctx, dataset, column)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, page)
	return page, nil
}
