package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"

	"github.com/zatekoja/careassist/backend/internal/domain/providers"
	"github.com/zatekoja/careassist/backend/internal/infrastructure/observability"
	"github.com/zatekoja/careassist/backend/internal/infrastructure/report"
)

const (
	msgCoordinatesRequired = "At least two coordinates are required"
	msgDirectionsFailed    = "Failed to fetch directions"
	msgBodyTooLarge        = "Request body too large"

	maxDirectionsBodyBytes = 1 << 20
	directionsCacheName    = "directions"
)

// DirectionsHandler relays directions requests to the routing provider with
// the server-held credential attached.
type DirectionsHandler struct {
	upstream providers.DirectionsUpstream
	cache    providers.CacheProvider
	cacheTTL int
	metrics  *observability.Metrics
}

// NewDirectionsHandler creates a new directions handler. Responses are cached
// only when cache is non-nil and cacheTTLSeconds is positive.
func NewDirectionsHandler(upstream providers.DirectionsUpstream, cache providers.CacheProvider, cacheTTLSeconds int, metrics *observability.Metrics) *DirectionsHandler {
	if cacheTTLSeconds <= 0 {
		cache = nil
	}
	return &DirectionsHandler{
		upstream: upstream,
		cache:    cache,
		cacheTTL: cacheTTLSeconds,
		metrics:  metrics,
	}
}

// GetDirections handles POST /api/directions.
func (h *DirectionsHandler) GetDirections(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerFromContext(ctx)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDirectionsBodyBytes))
	if err != nil {
		observability.DirectionsRequests.WithLabelValues("invalid").Inc()
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondWithError(w, http.StatusRequestEntityTooLarge, msgBodyTooLarge)
			return
		}
		respondWithError(w, http.StatusBadRequest, msgCoordinatesRequired)
		return
	}
	if err := validateDirectionsBody(body); err != nil {
		logger.Debug().Err(err).Msg("Rejected directions request")
		observability.DirectionsRequests.WithLabelValues("invalid").Inc()
		respondWithError(w, http.StatusBadRequest, msgCoordinatesRequired)
		return
	}

	cacheKey := directionsCacheKey(body)
	if h.cache != nil {
		if cached, err := h.cache.Get(ctx, cacheKey); err == nil && len(cached) > 0 {
			observability.RecordCacheHit(ctx, h.metrics, directionsCacheName)
			observability.DirectionsRequests.WithLabelValues("cached").Inc()
			w.Header().Set("X-Cache", "HIT")
			writeRawJSON(w, cached)
			return
		}
		observability.RecordCacheMiss(ctx, h.metrics, directionsCacheName)
	}

	payload, err := h.upstream.FetchDirections(ctx, body)
	if err != nil {
		logger.Error().Err(err).Msg("Error fetching directions")
		report.ReportError(ctx, err, report.Options{Tags: map[string]string{"upstream": "openrouteservice"}})
		observability.DirectionsRequests.WithLabelValues("upstream_error").Inc()
		respondWithError(w, http.StatusInternalServerError, msgDirectionsFailed)
		return
	}

	if h.cache != nil {
		if err := h.cache.Set(ctx, cacheKey, payload, h.cacheTTL); err != nil {
			logger.Warn().Err(err).Msg("Failed to cache directions response")
		}
	}

	observability.DirectionsRequests.WithLabelValues("ok").Inc()
	writeRawJSON(w, payload)
}

type directionsBody struct {
	Coordinates [][]float64 `json:"coordinates"`
}

// validateDirectionsBody requires at least two [lon, lat] pairs of finite numbers.
func validateDirectionsBody(body []byte) error {
	var req directionsBody
	if err := json.Unmarshal(body, &req); err != nil {
		return err
	}
	if len(req.Coordinates) < 2 {
		return errors.New("fewer than two coordinates")
	}
	for _, pair := range req.Coordinates {
		if len(pair) < 2 {
			return errors.New("coordinate is not a [lon, lat] pair")
		}
		for _, v := range pair {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return errors.New("coordinate is not finite")
			}
		}
	}
	return nil
}

func directionsCacheKey(body []byte) string {
	sum := sha256.Sum256(body)
	return "directions:" + hex.EncodeToString(sum[:])
}

func writeRawJSON(w http.ResponseWriter, payload []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}
