package cohort

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog/log"

	"github.com/memorise/testimony-explorer/internal/domain/entities"
	"github.com/memorise/testimony-explorer/internal/domain/providers"
	"github.com/memorise/testimony-explorer/internal/domain/repositories"
	"github.com/memorise/testimony-explorer/internal/infrastructure/observability"
)

// CacheKey derives the cache key for a facet state from its canonical
// form. Equal states always share a key regardless of the order facets
// were applied in.
func CacheKey(state entities.FacetState) string {
	return "cohort:" + strconv.FormatUint(xxhash.Sum64String(state.Key()), 16)
}

// Resolver memoizes facet-state resolution. Lookups go through the
// cache first; the store is only consulted on a miss, and the archive
// being read-only makes cached cohorts safe until TTL.
type Resolver struct {
	store   repositories.CohortRepository
	cache   providers.CacheProvider
	ttl     time.Duration
	metrics *observability.Metrics
}

// NewResolver creates a resolver over the given store and cache.
func NewResolver(store repositories.CohortRepository, cache providers.CacheProvider, ttl time.Duration) *Resolver {
	return &Resolver{store: store, cache: cache, ttl: ttl}
}

// SetMetrics enables cache hit/miss and resolve-duration metrics.
func (r *Resolver) SetMetrics(metrics *observability.Metrics) {
	r.metrics = metrics
}

// Resolve returns the cohort matching the facet state. An empty state
// is the whole archive and never touches the store.
func (r *Resolver) Resolve(ctx context.Context, state entities.FacetState) (entities.Cohort, error) {
	if state.IsEmpty() {
		return entities.Everyone(), nil
	}

	key := CacheKey(state)
	if cached, err := r.cache.Get(ctx, key); err == nil {
		c, decErr := Decode(cached)
		if decErr == nil {
			if r.metrics != nil {
				observability.RecordCacheHit(ctx, r.metrics, key)
			}
			return c, nil
		}
		// A corrupt entry is dropped and re-resolved from the store,
		// never widened into a match-everyone cohort.
		log.Warn().Err(decErr).Str("key", key).Msg("discarding undecodable cached cohort")
		if delErr := r.cache.Delete(ctx, key); delErr != nil {
			log.Warn().Err(delErr).Str("key", key).Msg("failed to evict corrupt cohort")
		}
	} else if !errors.Is(err, providers.ErrCacheMiss) {
		log.Warn().Err(err).Str("key", key).Msg("cohort cache unavailable, resolving from store")
	}
	if r.metrics != nil {
		observability.RecordCacheMiss(ctx, r.metrics, key)
	}

	start := time.Now()
	c, err := r.store.Resolve(ctx, state)
	if err != nil {
		return entities.Cohort{}, err
	}
	if r.metrics != nil {
		observability.RecordResolveMetric(ctx, r.metrics, time.Since(start))
	}

	if token, encErr := Encode(c); encErr == nil {
		if setErr := r.cache.Set(ctx, key, token, int(r.ttl.Seconds())); setErr != nil {
			log.Warn().Err(setErr).Str("key", key).Msg("failed to cache cohort")
		}
	} else {
		log.Warn().Err(encErr).Str("key", key).Msg("failed to encode cohort for caching")
	}
	return c, nil
}
