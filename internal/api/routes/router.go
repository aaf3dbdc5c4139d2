package routes

import (
	"net/http"

	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/zatekoja/careassist/backend/internal/api/handlers"
	"github.com/zatekoja/careassist/backend/internal/api/middleware"
	"github.com/zatekoja/careassist/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	directionsHandler *handlers.DirectionsHandler
	hospitalHandler   *handlers.HospitalHandler

	nearbyCache   *middleware.CacheMiddleware
	allowedOrigin string
	metrics       *observability.Metrics
}

// NewRouter creates a new router. hospitalHandler and nearbyCache may be nil.
func NewRouter(
	directionsHandler *handlers.DirectionsHandler,
	hospitalHandler *handlers.HospitalHandler,
	nearbyCache *middleware.CacheMiddleware,
	allowedOrigin string,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:               http.NewServeMux(),
		directionsHandler: directionsHandler,
		hospitalHandler:   hospitalHandler,
		nearbyCache:       nearbyCache,
		allowedOrigin:     allowedOrigin,
		metrics:           metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.mux.Handle("GET /metrics", promhttp.Handler())

	// Directions proxy
	r.mux.HandleFunc("POST /api/directions", r.directionsHandler.GetDirections)

	// Hospital discovery
	if r.hospitalHandler != nil {
		nearby := http.HandlerFunc(r.hospitalHandler.NearbyHospitals)
		r.mux.Handle("GET /api/hospitals/nearby", r.nearbyCache.Wrap(nearby))
	}

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = sentryhttp.New(sentryhttp.Options{Repanic: false}).Handle(handler)
	handler = middleware.RequestIDMiddleware(handler)

	// CORS wraps everything so preflights never reach the handlers
	handler = middleware.CORSMiddleware(r.allowedOrigin)(handler)

	return handler
}
