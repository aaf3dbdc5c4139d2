package providers

import (
	"context"
	"time"

	"github.com/zatekoja/careassist/backend/internal/domain/entities"
)

// PositionOptions bounds a single position acquisition
type PositionOptions struct {
	HighAccuracy bool
	Timeout      time.Duration
	MaximumAge   time.Duration
}

// Fix is one position reading
type Fix struct {
	Coordinate entities.Coordinate
	Accuracy   float64
	Timestamp  time.Time
}

// LocationSource defines the interface for host position capabilities
type LocationSource interface {
	// Available reports whether the capability exists at all
	Available() bool

	// CurrentPosition performs one acquisition attempt
	CurrentPosition(ctx context.Context, opts PositionOptions) (*Fix, error)
}
