package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/Harikishanth/HealBee-AI/internal/adapters/cache"
	"github.com/Harikishanth/HealBee-AI/internal/adapters/providers/nominatim"
	"github.com/Harikishanth/HealBee-AI/internal/adapters/providers/overpass"
	"github.com/Harikishanth/HealBee-AI/internal/api/handlers"
	"github.com/Harikishanth/HealBee-AI/internal/api/middleware"
	"github.com/Harikishanth/HealBee-AI/internal/api/routes"
	"github.com/Harikishanth/HealBee-AI/internal/application/services"
	"github.com/Harikishanth/HealBee-AI/internal/infrastructure/clients/redis"
	"github.com/Harikishanth/HealBee-AI/internal/infrastructure/observability"
	"github.com/Harikishanth/HealBee-AI/pkg/config"
	"github.com/Harikishanth/HealBee-AI/pkg/throttle"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Log.Env)
	observability.SetLevel(cfg.Log.Level)

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			log.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	// Public map services
	geocoder := nominatim.NewProviderWithOptions(
		cfg.Nominatim.BaseURL,
		cfg.Nominatim.UserAgent,
		&http.Client{Timeout: cfg.Nominatim.Timeout()},
	)
	pois := overpass.NewProviderWithOptions(
		cfg.Overpass.BaseURL,
		cfg.Overpass.UserAgent,
		cfg.Overpass.QueryTimeoutSeconds,
		&http.Client{Timeout: cfg.Overpass.Timeout()},
	)

	pacer := throttle.NewPacer(cfg.Search.MinRequestInterval())
	log.Info().Dur("min_request_interval", pacer.Interval()).Msg("upstream pacing configured")
	resolver := services.NewLocationResolver(geocoder, pacer, cfg.Nominatim.Timeout(), metrics)
	engine := services.NewFacilityQueryEngine(pois, geocoder, services.QueryEngineOptions{
		MinRadiusMeters:   cfg.Search.MinRadiusMeters,
		MaxRadiusMeters:   cfg.Search.MaxRadiusMeters,
		ProximityTimeout:  cfg.Overpass.Timeout(),
		TextSearchTimeout: cfg.Nominatim.Timeout(),
		Pacer:             pacer,
		Metrics:           metrics,
	})
	locator := services.NewFacilityLocatorService(resolver, engine, services.NewConditionHints(), services.LocatorOptions{
		LocationRadiusMeters:   cfg.Search.LocationRadiusMeters,
		LocationCandidateLimit: cfg.Search.LocationCandidateLimit,
		FallbackPerTierLimit:   cfg.Search.FallbackPerTierLimit,
		FallbackResultLimit:    cfg.Search.FallbackResultLimit,
		GPSRadiusMeters:        cfg.Search.GPSRadiusMeters,
		GPSResultLimit:         cfg.Search.GPSResultLimit,
	})

	// Optional response cache
	var cacheMiddleware *middleware.CacheMiddleware
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, response caching disabled")
		} else {
			defer redisClient.Close()
			cacheMiddleware = middleware.NewCacheMiddleware(
				cache.NewRedisAdapter(redisClient),
				cfg.Redis.FacilityTTLSeconds,
				cfg.Redis.GeocodeTTLSeconds,
				metrics,
			)
			log.Info().Str("addr", cfg.Redis.RedisAddr()).Msg("redis response cache enabled")
		}
	}

	router := routes.NewRouter(
		handlers.NewFacilityHandler(locator),
		handlers.NewGeolocationHandler(locator),
		cacheMiddleware,
		cfg.Server.AllowedOrigins,
		metrics,
	)

	// A text search with full fallback makes up to six paced upstream calls
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("server shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout())
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	log.Info().Msg("server stopped")
}
