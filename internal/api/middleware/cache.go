package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Harikishanth/HealBee-AI/internal/domain/providers"
	"github.com/Harikishanth/HealBee-AI/internal/infrastructure/observability"
)

// CacheConfig holds cache configuration for specific routes
type CacheConfig struct {
	TTLSeconds int
	Enabled    bool
}

// CacheMiddleware provides HTTP response caching
type CacheMiddleware struct {
	cache        providers.CacheProvider
	routeConfigs map[string]CacheConfig
	metrics      *observability.Metrics
}

// NewCacheMiddleware creates a cache middleware for the facility lookup routes
func NewCacheMiddleware(cache providers.CacheProvider, facilityTTLSeconds, geocodeTTLSeconds int, metrics *observability.Metrics) *CacheMiddleware {
	return &CacheMiddleware{
		cache: cache,
		routeConfigs: map[string]CacheConfig{
			"/api/facilities/nearby":     {TTLSeconds: facilityTTLSeconds, Enabled: facilityTTLSeconds > 0},
			"/api/facilities/nearby/gps": {TTLSeconds: facilityTTLSeconds, Enabled: facilityTTLSeconds > 0},
			"/api/geocode":               {TTLSeconds: geocodeTTLSeconds, Enabled: geocodeTTLSeconds > 0},
		},
		metrics: metrics,
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

		ctx := r.Context()
		logger := observability.LoggerFromContext(ctx)
		cacheKey := m.generateCacheKey(r)

		refresh := requestsRevalidation(r)
		if !refresh {
			cached, err := m.cache.Get(ctx, cacheKey)
			if err == nil {
				observability.RecordCacheHit(ctx, m.metrics, r.URL.Path)
				logger.Debug().Str("cache_key", cacheKey).Msg("cache hit")
				w.Header().Set("X-Cache", "HIT")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write(cached)
				return
			}
			if !errors.Is(err, providers.ErrCacheMiss) {
				logger.Warn().Err(err).Str("cache_key", cacheKey).Msg("cache read failed")
			}
		}

		observability.RecordCacheMiss(ctx, m.metrics, r.URL.Path)
		if refresh {
			w.Header().Set("X-Cache", "REFRESH")
		} else {
			w.Header().Set("X-Cache", "MISS")
		}

		recorder := &responseRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
			body:           &bytes.Buffer{},
		}

		next.ServeHTTP(recorder, r)

		if !storable(recorder, w.Header()) {
			// A forced refresh that produced nothing usable evicts the stale entry
			if refresh {
				if err := m.cache.Delete(ctx, cacheKey); err != nil {
					logger.Warn().Err(err).Str("cache_key", cacheKey).Msg("failed to evict cached response")
				}
			}
			return
		}
		if err := m.cache.Set(ctx, cacheKey, recorder.body.Bytes(), config.TTLSeconds); err != nil {
			logger.Warn().Err(err).Str("cache_key", cacheKey).Msg("failed to cache response")
			return
		}
		logger.Debug().Str("cache_key", cacheKey).Int("ttl_seconds", config.TTLSeconds).Msg("cached response")
	})
}

// requestsRevalidation reports whether the client asked to bypass stored responses
func requestsRevalidation(r *http.Request) bool {
	directives := strings.ToLower(r.Header.Get("Cache-Control"))
	return strings.Contains(directives, "no-cache") || strings.Contains(r.Header.Get("Pragma"), "no-cache")
}

// storable reports whether a handler response may be written to the cache.
// Only 200s with a body that the handler did not mark no-store qualify.
func storable(recorder *responseRecorder, header http.Header) bool {
	if recorder.statusCode != http.StatusOK || recorder.body.Len() == 0 {
		return false
	}
	return !strings.Contains(header.Get("Cache-Control"), "no-store")
}

// getRouteConfig gets the cache configuration for a route
func (m *CacheMiddleware) getRouteConfig(path string) CacheConfig {
	if config, exists := m.routeConfigs[strings.TrimSuffix(path, "/")]; exists {
		return config
	}
	return CacheConfig{Enabled: false}
}

// generateCacheKey hashes method, path and the query with parameters sorted
func (m *CacheMiddleware) generateCacheKey(r *http.Request) string {
	key := fmt.Sprintf("%s:%s", r.Method, strings.TrimSuffix(r.URL.Path, "/"))
	if query := r.URL.Query().Encode(); query != "" {
		key += "?" + query
	}

	hash := sha256.Sum256([]byte(key))
	return "http:cache:" + hex.EncodeToString(hash[:])
}

// responseRecorder captures the response for caching
type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
	written    bool
}

// WriteHeader captures the status code
func (r *responseRecorder) WriteHeader(statusCode int) {
	if !r.written {
		r.statusCode = statusCode
		r.ResponseWriter.WriteHeader(statusCode)
		r.written = true
	}
}

// Write captures the response body and writes to the client
func (r *responseRecorder) Write(data []byte) (int, error) {
	if !r.written {
		r.WriteHeader(http.StatusOK)
	}

	r.body.Write(data)
	return r.ResponseWriter.Write(data)
}
