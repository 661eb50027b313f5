package metrics

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"pulse-analytics/internal/ingest"
)

type cacheKey struct {
	dataset string
	period  string
}

// Engine memoizes AggregateByPeriod by dataset identity and period. Returned
// summaries are shared between callers and must be treated as read-only.
type Engine struct {
	cache *lru.Cache[cacheKey, []RegionSummary]
}

func NewEngine(size int) (*Engine, error) {
	if size < 1 {
		size = 1
	}
	c, err := lru.New[cacheKey, []RegionSummary](size)
	if err != nil {
		return nil, fmt.Errorf("new aggregate cache: %w", err)
	}
	return &Engine{cache: c}, nil
}

// Regions returns the region summaries of ds for period.
func (e *Engine) Regions(ds ingest.Dataset, period string) []RegionSummary {
	k := cacheKey{dataset: ds.ID, period: period}
	if v, ok := e.cache.Get(k); ok {
		return v
	}
	v := AggregateByPeriod(ds.Records, period)
	e.cache.Add(k, v)
	return v
}

// Cached reports whether the summaries for (ds, period) are memoized.
func (e *Engine) Cached(ds ingest.Dataset, period string) bool {
	return e.cache.Contains(cacheKey{dataset: ds.ID, period: period})
}
