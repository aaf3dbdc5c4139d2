package geolocation

import (
	"context"
	"time"

	"github.com/zatekoja/careassist/backend/internal/domain/entities"
	"github.com/zatekoja/careassist/backend/internal/domain/providers"
)

// StaticSource reports a fixed, caller-supplied position (CLI flags, request
// query parameters).
type StaticSource struct {
	coordinate entities.Coordinate
	now        func() time.Time
}

// NewStaticSource creates a source that always reports coordinate.
func NewStaticSource(coordinate entities.Coordinate) *StaticSource {
	return &StaticSource{coordinate: coordinate, now: time.Now}
}

// Available always reports true
func (s *StaticSource) Available() bool {
	return true
}

// CurrentPosition returns the configured coordinate, validated.
func (s *StaticSource) CurrentPosition(ctx context.Context, opts providers.PositionOptions) (*providers.Fix, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.coordinate.Validate(); err != nil {
		return nil, err
	}
	return &providers.Fix{Coordinate: s.coordinate, Timestamp: s.now()}, nil
}

// UnavailableSource models a host without any location capability.
type UnavailableSource struct{}

// Available always reports false
func (UnavailableSource) Available() bool {
	return false
}

// CurrentPosition always fails
func (UnavailableSource) CurrentPosition(ctx context.Context, opts providers.PositionOptions) (*providers.Fix, error) {
	return nil, errLocationUnsupported
}
