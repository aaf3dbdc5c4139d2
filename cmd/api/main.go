package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/careassist/backend/internal/adapters/cache"
	"github.com/zatekoja/careassist/backend/internal/adapters/providers/overpass"
	"github.com/zatekoja/careassist/backend/internal/adapters/providers/routing"
	"github.com/zatekoja/careassist/backend/internal/api/handlers"
	"github.com/zatekoja/careassist/backend/internal/api/middleware"
	"github.com/zatekoja/careassist/backend/internal/api/routes"
	"github.com/zatekoja/careassist/backend/internal/application/services"
	"github.com/zatekoja/careassist/backend/internal/domain/entities"
	"github.com/zatekoja/careassist/backend/internal/domain/providers"
	"github.com/zatekoja/careassist/backend/internal/infrastructure/clients/redis"
	"github.com/zatekoja/careassist/backend/internal/infrastructure/observability"
	"github.com/zatekoja/careassist/backend/internal/infrastructure/report"
	"github.com/zatekoja/careassist/backend/pkg/config"
)

type listenFunc func(network, address string) (net.Listener, error)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Warn().Err(err).Msg("Failed to load .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, net.Listen)
	stop()
	if err != nil {
		if errors.Is(err, config.ErrCredentialMissing) {
			log.Error().Err(err).Msg("Refusing to start directions proxy without a routing provider key")
		} else {
			log.Error().Err(err).Msg("Server failed")
		}
		os.Exit(1)
	}
}

// run validates configuration before any listener exists, then serves until
// ctx is canceled.
func run(ctx context.Context, cfg *config.Config, listen listenFunc) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := observability.GetLogger()

	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(shutdownCtx); err != nil {
					logger.Warn().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			logger.Info().Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		return err
	}

	if err := report.SetupSentry(cfg.Sentry.DSN, cfg.Environment, cfg.OTEL.ServiceVersion); err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize Sentry")
	} else if report.Enabled() {
		defer report.FlushSentry()
	}

	var cacheProvider providers.CacheProvider
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Warn().Err(err).Msg("Redis unavailable, response caching disabled")
		} else {
			defer redisClient.Close()
			cacheProvider = cache.NewRedisAdapter(redisClient)
		}
	}

	upstream := routing.NewORSClient(routing.ORSOptions{
		URL:     cfg.Directions.DirectionsURL(),
		APIKey:  cfg.Directions.APIKey,
		Timeout: cfg.Directions.Timeout,
		Metrics: metrics,
	})
	directionsHandler := handlers.NewDirectionsHandler(upstream, cacheProvider, cfg.Directions.CacheTTL, metrics)

	poiClient := overpass.NewClient(overpass.Options{
		Endpoint:    cfg.Overpass.URL,
		Timeout:     cfg.Overpass.Timeout,
		MaxAttempts: cfg.Overpass.MaxAttempts,
	})
	hospitalHandler := handlers.NewHospitalHandler(
		services.NewHospitalService(poiClient, cfg.Overpass.RadiusMeters),
		geolocatorConfig(cfg),
	)
	nearbyCache := middleware.NewCacheMiddleware(cacheProvider, "nearby", cfg.Overpass.CacheTTL, metrics)

	router := routes.NewRouter(directionsHandler, hospitalHandler, nearbyCache, cfg.CORS.AllowedOrigin, metrics)

	ln, err := listen("tcp", cfg.Server.ServerAddr())
	if err != nil {
		return err
	}

	server := &http.Server{
		Handler:           router.SetupRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.Directions.Timeout + cfg.Overpass.Timeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", ln.Addr().String()).Msg("Proxy server running")
		serveErr <- server.Serve(ln)
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("Server shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info().Msg("Server stopped")
	return nil
}

func geolocatorConfig(cfg *config.Config) services.GeolocatorConfig {
	return services.GeolocatorConfig{
		Fallback: entities.Coordinate{
			Latitude:  cfg.Geolocation.FallbackLatitude,
			Longitude: cfg.Geolocation.FallbackLongitude,
		},
		Timeout:    cfg.Geolocation.Timeout,
		MaximumAge: cfg.Geolocation.MaximumAge,
	}
}
