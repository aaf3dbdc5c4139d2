package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/zatekoja/careassist/backend/internal/domain/entities"
	"github.com/zatekoja/careassist/backend/internal/domain/providers"
	"github.com/zatekoja/careassist/backend/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/careassist/backend/pkg/errors"
)

// DefaultFallbackCoordinate is used whenever no position can be acquired (New Delhi).
var DefaultFallbackCoordinate = entities.Coordinate{Latitude: 28.6139, Longitude: 77.2090}

// GeolocatorConfig holds acquisition bounds and the fallback coordinate
type GeolocatorConfig struct {
	Fallback   entities.Coordinate
	Timeout    time.Duration
	MaximumAge time.Duration
}

// DefaultGeolocatorConfig returns a 10s timeout, 60s staleness tolerance and the default fallback.
func DefaultGeolocatorConfig() GeolocatorConfig {
	return GeolocatorConfig{
		Fallback:   DefaultFallbackCoordinate,
		Timeout:    10 * time.Second,
		MaximumAge: 60 * time.Second,
	}
}

// Acquisition is the outcome of one location request. Err carries the
// LocationUnavailable cause when Fallback is true.
type Acquisition struct {
	Coordinate entities.Coordinate
	Fallback   bool
	Err        error
}

// Locator acquires an anchor coordinate and never fails
type Locator interface {
	Acquire(ctx context.Context) Acquisition
}

// Geolocator obtains a single position fix from a LocationSource, falling back
// to a fixed coordinate on any failure.
type Geolocator struct {
	source providers.LocationSource
	cfg    GeolocatorConfig
	now    func() time.Time

	mu   sync.Mutex
	last *providers.Fix
}

// NewGeolocator creates a new geolocator
func NewGeolocator(source providers.LocationSource, cfg GeolocatorConfig) *Geolocator {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Fallback.Validate() != nil {
		cfg.Fallback = DefaultFallbackCoordinate
	}
	return &Geolocator{source: source, cfg: cfg, now: time.Now}
}

// AcquireLocation returns the current position or the fallback coordinate.
func (g *Geolocator) AcquireLocation(ctx context.Context) entities.Coordinate {
	return g.Acquire(ctx).Coordinate
}

// Acquire performs at most one acquisition attempt, bounded by the configured
// timeout. A fix younger than MaximumAge is reused without asking the source.
func (g *Geolocator) Acquire(ctx context.Context) Acquisition {
	if fix := g.cachedFix(); fix != nil {
		return Acquisition{Coordinate: fix.Coordinate}
	}

	if g.source == nil || !g.source.Available() {
		return g.fallback(ctx, errors.New("geolocation is not supported"))
	}

	acquireCtx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	fix, err := g.source.CurrentPosition(acquireCtx, providers.PositionOptions{
		HighAccuracy: true,
		Timeout:      g.cfg.Timeout,
		MaximumAge:   g.cfg.MaximumAge,
	})
	if err != nil {
		return g.fallback(ctx, err)
	}
	if fix == nil {
		return g.fallback(ctx, errors.New("location source returned no fix"))
	}
	if err := fix.Coordinate.Validate(); err != nil {
		return g.fallback(ctx, err)
	}

	if fix.Timestamp.IsZero() {
		fix.Timestamp = g.now()
	}
	g.mu.Lock()
	g.last = fix
	g.mu.Unlock()

	return Acquisition{Coordinate: fix.Coordinate}
}

func (g *Geolocator) cachedFix() *providers.Fix {
	if g.cfg.MaximumAge <= 0 {
		return nil
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.last == nil || g.now().Sub(g.last.Timestamp) > g.cfg.MaximumAge {
		return nil
	}
	return g.last
}

func (g *Geolocator) fallback(ctx context.Context, cause error) Acquisition {
	err := apperrors.NewLocationUnavailableError("using fallback coordinate", cause)
	observability.LoggerFromContext(ctx).Warn().Err(err).
		Float64("lat", g.cfg.Fallback.Latitude).
		Float64("lon", g.cfg.Fallback.Longitude).
		Msg("Location unavailable")
	observability.LocationFallbacks.Inc()
	return Acquisition{Coordinate: g.cfg.Fallback, Fallback: true, Err: err}
}
