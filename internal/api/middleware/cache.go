package middleware

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog/log"

	"github.com/memorise/testimony-explorer/internal/domain/providers"
)

// CacheConfig holds cache configuration for specific routes
type CacheConfig struct {
	TTLSeconds int
	Enabled    bool
}

// CacheMiddleware caches responses of session-independent GET routes.
// Session-scoped views depend on per-session facet state and are never
// cached here; their cohorts are memoized by the cohort cache instead.
type CacheMiddleware struct {
	cache        providers.CacheProvider
	routeConfigs map[string]CacheConfig
}

// NewCacheMiddleware creates a new cache middleware
func NewCacheMiddleware(cache providers.CacheProvider) *CacheMiddleware {
	return &CacheMiddleware{
		cache: cache,
		routeConfigs: map[string]CacheConfig{
			"/api/suggest/keywords":  {TTLSeconds: 600, Enabled: true},
			"/api/suggest/places":    {TTLSeconds: 600, Enabled: true},
			"/api/suggest/answers":   {TTLSeconds: 600, Enabled: true},
			"/api/places/summary":    {TTLSeconds: 1800, Enabled: true},
			"/api/persons/":          {TTLSeconds: 1800, Enabled: true}, // prefix match
			"/api/countries":         {TTLSeconds: 3600, Enabled: true},
			"/api/experience-groups": {TTLSeconds: 3600, Enabled: true},
		},
	}
}

// Middleware returns the cache middleware handler
func (m *CacheMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Only cache GET requests
		if r.Method != http.MethodGet || m.cache == nil {
			next.ServeHTTP(w, r)
			return
		}

		config := m.getRouteConfig(r.URL.Path)
		if !config.Enabled {
			next.ServeHTTP(w, r)
			return
		}

		cacheKey := m.generateCacheKey(r)

		if cached, err := m.cache.Get(r.Context(), cacheKey); err == nil {
			w.Header().Set("X-Cache", "HIT")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			if _, err := w.Write(cached); err != nil {
				log.Warn().Err(err).Msg("failed to write cached response")
			}
			return
		}

		w.Header().Set("X-Cache", "MISS")
		recorder := &responseRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
			body:           &bytes.Buffer{},
		}

		next.ServeHTTP(recorder, r)

		// Only cache successful responses
		if recorder.statusCode == http.StatusOK && recorder.body.Len() > 0 {
			if err := m.cache.Set(r.Context(), cacheKey, recorder.body.Bytes(), config.TTLSeconds); err != nil {
				log.Warn().Err(err).Str("key", cacheKey).Msg("failed to cache response")
			}
		}
	})
}

// getRouteConfig gets the cache configuration for a route
func (m *CacheMiddleware) getRouteConfig(path string) CacheConfig {
	if config, exists := m.routeConfigs[path]; exists {
		return config
	}

	// Prefix match for dynamic routes (e.g. /api/persons/{intcode})
	for route, config := range m.routeConfigs {
		if strings.HasSuffix(route, "/") && strings.HasPrefix(path, route) {
			return config
		}
	}
	return CacheConfig{}
}

func (m *CacheMiddleware) generateCacheKey(r *http.Request) string {
	sum := xxhash.Sum64String(r.URL.Path + "?" + r.URL.RawQuery)
	return "response:" + strconv.FormatUint(sum, 16)
}

// responseRecorder captures the response body while streaming it to the
// client.
type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}

func (r *responseRecorder) Write(data []byte) (int, error) {
	r.body.Write(data)
	return r.ResponseWriter.Write(data)
}
