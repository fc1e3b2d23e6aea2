package reports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCache struct {
	data map[string][]byte
	gets int
	sets int
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}}
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, error) {
	c.gets++
	data, ok := c.data[key]
	if !ok {
		return nil, ErrNotCached
	}
	return data, nil
}

func (c *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.sets++
	c.data[key] = value
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	delete(c.data, key)
	return nil
}

type runPayload struct {
	Total int `json:"total"`
}

func sumDefinition(fetches *int, aggregates *int, fetchErr error) Definition[[]int, runPayload] {
	return Definition[[]int, runPayload]{
		Slug: "test-sum",
		Name: "Test Sum",
		Fetch: func(_ context.Context, _ Params) ([]int, error) {
			*fetches++
			if fetchErr != nil {
				return nil, fetchErr
			}
			return []int{1, 2, 3}, nil
		},
		Aggregate: func(_ context.Context, _ Params, raw []int, _ *ErrorSet) runPayload {
			*aggregates++
			total := 0
			for _, n := range raw {
				total += n
			}
			return runPayload{Total: total}
		},
	}
}

func cachedRequest() Request {
	return Request{StartDate: "2024-01-01", EndDate: "2024-01-31", CacheEnabled: true}
}

func TestRunner_SecondRunServedFromCache(t *testing.T) {
	var fetches, aggregates int
	cache := newMemCache()
	runner := NewRunner(sumDefinition(&fetches, &aggregates, nil), cache)

	first, errs := runner.Run(context.Background(), cachedRequest())
	require.False(t, errs.HasErrors())
	assert.Equal(t, runPayload{Total: 6}, first)
	assert.Equal(t, 1, fetches)
	assert.Equal(t, 1, cache.sets)

	second, errs := runner.Run(context.Background(), cachedRequest())
	require.False(t, errs.HasErrors())
	assert.Equal(t, first, second)
	assert.Equal(t, 1, fetches, "cache hit must not refetch")
	assert.Equal(t, 1, aggregates, "final-mode cache hit must not reaggregate")
}

func TestRunner_FlushCacheForcesRefetch(t *testing.T) {
	var fetches, aggregates int
	cache := newMemCache()
	runner := NewRunner(sumDefinition(&fetches, &aggregates, nil), cache)

	_, errs := runner.Run(context.Background(), cachedRequest())
	require.False(t, errs.HasErrors())

	req := cachedRequest()
	req.FlushCache = true
	result, errs := runner.Run(context.Background(), req)
	require.False(t, errs.HasErrors())
	assert.Equal(t, runPayload{Total: 6}, result)
	assert.Equal(t, 2, fetches)
}

func TestRunner_CacheDisabledAlwaysFetches(t *testing.T) {
	var fetches, aggregates int
	cache := newMemCache()
	runner := NewRunner(sumDefinition(&fetches, &aggregates, nil), cache)

	req := Request{StartDate: "2024-01-01", EndDate: "2024-01-31"}
	_, _ = runner.Run(context.Background(), req)
	_, _ = runner.Run(context.Background(), req)

	assert.Equal(t, 2, fetches)
	assert.Equal(t, 0, cache.gets)
	assert.Equal(t, 0, cache.sets)
}

func TestRunner_RawModeReaggregatesOnCacheHit(t *testing.T) {
	var fetches, aggregates int
	def := sumDefinition(&fetches, &aggregates, nil)
	def.CacheMode = CacheRaw
	cache := newMemCache()
	runner := NewRunner(def, cache)

	first, errs := runner.Run(context.Background(), cachedRequest())
	require.False(t, errs.HasErrors())

	second, errs := runner.Run(context.Background(), cachedRequest())
	require.False(t, errs.HasErrors())
	assert.Equal(t, first, second)
	assert.Equal(t, 1, fetches)
	assert.Equal(t, 2, aggregates, "raw-mode cache hit reruns aggregation")
}

func TestRunner_ValidationFailureShortCircuits(t *testing.T) {
	var fetches, aggregates int
	cache := newMemCache()
	runner := NewRunner(sumDefinition(&fetches, &aggregates, nil), cache)

	result, errs := runner.Run(context.Background(), Request{
		StartDate:    "2024-02-01",
		EndDate:      "2024-01-01",
		CacheEnabled: true,
	})

	assert.Equal(t, []string{"negative_date_interval"}, errs.Codes())
	assert.Equal(t, runPayload{}, result)
	assert.Equal(t, 0, fetches)
	assert.Equal(t, 0, cache.gets)
}

func TestRunner_ReportValidateHookRuns(t *testing.T) {
	var fetches, aggregates int
	def := sumDefinition(&fetches, &aggregates, nil)
	def.Validate = func(_ context.Context, p *Params, errs *ErrorSet) {
		if p.Status != "" && p.Status != "open" {
			errs.Add("invalid_status", "unknown status "+p.Status)
		}
	}
	runner := NewRunner(def, newMemCache())

	req := cachedRequest()
	req.Status = "bogus"
	result, errs := runner.Run(context.Background(), req)

	assert.Equal(t, []string{"invalid_status"}, errs.Codes())
	assert.Equal(t, runPayload{}, result)
	assert.Equal(t, 0, fetches)
}

func TestRunner_FetchFailureYieldsZeroResult(t *testing.T) {
	var fetches, aggregates int
	cache := newMemCache()
	runner := NewRunner(sumDefinition(&fetches, &aggregates, errors.New("db down")), cache)

	result, errs := runner.Run(context.Background(), cachedRequest())

	assert.Equal(t, []string{"fetch_failed"}, errs.Codes())
	assert.Equal(t, runPayload{}, result)
	assert.Equal(t, 0, aggregates)
	assert.Equal(t, 0, cache.sets, "failed runs are never cached")
}

func TestRunner_ErroredAggregationNotCached(t *testing.T) {
	var fetches int
	def := Definition[[]int, runPayload]{
		Slug: "test-sum",
		Fetch: func(_ context.Context, _ Params) ([]int, error) {
			fetches++
			return []int{1}, nil
		},
		Aggregate: func(_ context.Context, _ Params, _ []int, errs *ErrorSet) runPayload {
			errs.Add("currency_conversion_failed", "rate service unavailable")
			return runPayload{Total: 1}
		},
	}
	cache := newMemCache()
	runner := NewRunner(def, cache)

	result, errs := runner.Run(context.Background(), cachedRequest())
	assert.Equal(t, []string{"currency_conversion_failed"}, errs.Codes())
	assert.Equal(t, runPayload{Total: 1}, result, "partial result still returned")
	assert.Equal(t, 0, cache.sets)
}

func TestRunner_CacheKeyVariants(t *testing.T) {
	runner := NewRunner(Definition[[]int, runPayload]{Slug: "test-sum"}, nil)

	base := Params{
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC),
	}
	scoped := base
	scoped.ScopeID = 42
	statused := base
	statused.Status = "wcbsi_paid"

	keys := map[string]bool{
		runner.cacheKey(base):     true,
		runner.cacheKey(scoped):   true,
		runner.cacheKey(statused): true,
	}
	assert.Len(t, keys, 3, "scope and status must produce distinct keys")
}

func TestRunner_MalformedCacheEntryFallsThroughToFetch(t *testing.T) {
	var fetches, aggregates int
	cache := newMemCache()
	runner := NewRunner(sumDefinition(&fetches, &aggregates, nil), cache)

	p, errs := ParseParams(cachedRequest(), Limits{})
	require.False(t, errs.HasErrors())
	cache.data[runner.cacheKey(p)] = []byte("{not json")

	result, errs := runner.Run(context.Background(), cachedRequest())
	require.False(t, errs.HasErrors())
	assert.Equal(t, runPayload{Total: 6}, result)
	assert.Equal(t, 1, fetches)
}
