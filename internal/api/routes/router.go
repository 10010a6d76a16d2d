package routes

import (
	"net/http"

	"github.com/Harikishanth/HealBee-AI/internal/api/handlers"
	"github.com/Harikishanth/HealBee-AI/internal/api/middleware"
	"github.com/Harikishanth/HealBee-AI/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	facilityHandler    *handlers.FacilityHandler
	geolocationHandler *handlers.GeolocationHandler

	cacheMiddleware *middleware.CacheMiddleware
	allowedOrigins  []string
	metrics         *observability.Metrics
}

// NewRouter creates a new router. cacheMiddleware may be nil.
func NewRouter(
	facilityHandler *handlers.FacilityHandler,
	geolocationHandler *handlers.GeolocationHandler,
	cacheMiddleware *middleware.CacheMiddleware,
	allowedOrigins []string,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:                http.NewServeMux(),
		facilityHandler:    facilityHandler,
		geolocationHandler: geolocationHandler,
		cacheMiddleware:    cacheMiddleware,
		allowedOrigins:     allowedOrigins,
		metrics:            metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Facility endpoints
	r.mux.HandleFunc("GET /api/facilities/nearby", r.facilityHandler.NearbyByLocation)
	r.mux.HandleFunc("GET /api/facilities/nearby/gps", r.facilityHandler.NearbyByGPS)
	r.mux.HandleFunc("GET /api/condition-hints", r.facilityHandler.ConditionHints)

	// Geolocation endpoints
	r.mux.HandleFunc("GET /api/geocode", r.geolocationHandler.Geocode)

	// Apply middleware in reverse order (last middleware wraps first).
	// Cache sits innermost so stored bodies are uncompressed JSON.
	var handler http.Handler = r.mux

	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)

	// Apply HTTP performance optimizations (compression, ETag, cache headers)
	handler = middleware.ResponseOptimization(handler)

	// CORS wraps everything so headers are set even on cache HITs
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)
	handler = middleware.RequestIDMiddleware(handler)

	return handler
}
