package reports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CacheMode selects which stage of the pipeline a report caches.
type CacheMode int

const (
	// CacheFinal caches the aggregated result.
	CacheFinal CacheMode = iota
	// CacheRaw caches the fetched data; aggregation re-runs on every call,
	// including cache hits. Either mode yields an observably identical
	// result for identical parameters.
	CacheRaw
)

// Definition wires a concrete report into the shared lifecycle: metadata,
// validation limits, a fetch strategy producing raw data R, and an
// aggregation strategy producing the report payload T.
type Definition[R, T any] struct {
	Slug        string
	Name        string
	Description string
	Group       string
	Limits      Limits
	CacheMode   CacheMode

	// Validate performs report-specific parameter checks (scope resolution,
	// status filters), accumulating problems rather than stopping at the
	// first. Optional.
	Validate func(ctx context.Context, p *Params, errs *ErrorSet)
	// Fetch retrieves the raw data for the window. A returned error aborts
	// the run and is recorded in the error set; partial results are never
	// returned as if complete.
	Fetch func(ctx context.Context, p Params) (R, error)
	// Aggregate transforms raw data into the report payload. Conversion
	// failures are recorded in errs but do not abort the aggregation.
	Aggregate func(ctx context.Context, p Params, raw R, errs *ErrorSet) T
}

// Runner executes a definition through the shared lifecycle: validate,
// cache lookup, fetch, aggregate, cache store.
type Runner[R, T any] struct {
	def   Definition[R, T]
	cache Cache
	now   func() time.Time
}

func NewRunner[R, T any](def Definition[R, T], cache Cache) *Runner[R, T] {
	return &Runner[R, T]{def: def, cache: cache, now: time.Now}
}

// Run computes the report for req. It never returns a Go error across this
// boundary; every failure is observable through the returned error set, and
// a run with validation or fetch errors yields the zero payload.
func (r *Runner[R, T]) Run(ctx context.Context, req Request) (T, *ErrorSet) {
	var zero T
	logger := zerolog.Ctx(ctx).With().
		Str("report", r.def.Slug).
		Str("run_id", uuid.NewString()).
		Logger()

	p, errs := ParseParams(req, r.def.Limits)
	if !errs.HasErrors() && r.def.Validate != nil {
		r.def.Validate(ctx, &p, errs)
	}
	if errs.HasErrors() {
		return zero, errs
	}

	key := r.cacheKey(p)
	useCache := p.CacheEnabled && r.cache != nil

	if useCache {
		if p.FlushCache {
			if err := r.cache.Delete(ctx, key); err != nil {
				logger.Warn().Err(err).Str("key", key).Msg("cache flush failed")
			}
		} else {
			switch r.def.CacheMode {
			case CacheRaw:
				var cached R
				if r.cacheGet(ctx, key, &cached, &logger) {
					return r.def.Aggregate(ctx, p, cached, errs), errs
				}
			default:
				var cached T
				if r.cacheGet(ctx, key, &cached, &logger) {
					return cached, errs
				}
			}
		}
	}

	raw, err := r.def.Fetch(ctx, p)
	if err != nil {
		logger.Error().Err(err).Msg("report fetch failed")
		errs.Add("fetch_failed", fmt.Sprintf("failed to retrieve report data: %v", err))
		return zero, errs
	}

	result := r.def.Aggregate(ctx, p, raw, errs)

	if useCache && !errs.HasErrors() {
		var payload any = result
		if r.def.CacheMode == CacheRaw {
			payload = raw
		}
		if data, err := json.Marshal(payload); err != nil {
			logger.Warn().Err(err).Msg("cache encode failed")
		} else if err := r.cache.Set(ctx, key, data, p.CacheTTL(r.now())); err != nil {
			logger.Warn().Err(err).Str("key", key).Msg("cache store failed")
		}
	}

	return result, errs
}

func (r *Runner[R, T]) cacheGet(ctx context.Context, key string, into any, logger *zerolog.Logger) bool {
	data, err := r.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotCached) {
			logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
		}
		return false
	}
	if err := json.Unmarshal(data, into); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("discarding malformed cache entry")
		return false
	}
	return true
}

// cacheKey incorporates the epoch timestamps of both dates plus scope and
// status so distinct windows never collide.
func (r *Runner[R, T]) cacheKey(p Params) string {
	key := fmt.Sprintf("report:%s:%d:%d", r.def.Slug, p.StartDate.Unix(), p.EndDate.Unix())
	if p.ScopeID != 0 {
		key += fmt.Sprintf(":%d", p.ScopeID)
	}
	if p.Status != "" {
		key += ":" + p.Status
	}
	return key
}

// Meta describes the report for listings.
func (r *Runner[R, T]) Meta() Meta {
	return Meta{
		Slug:        r.def.Slug,
		Name:        r.def.Name,
		Description: r.def.Description,
		Group:       r.def.Group,
	}
}
