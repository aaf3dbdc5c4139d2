package providers

import (
	"context"

	"github.com/zatekoja/careassist/backend/internal/domain/entities"
)

// RouteProvider defines the interface for origin-destination route summaries
type RouteProvider interface {
	ResolveRoute(ctx context.Context, origin, destination entities.Coordinate) (*entities.RouteSummary, error)
}

// DirectionsUpstream forwards a raw directions request body to the routing
// provider and returns the raw response body.
type DirectionsUpstream interface {
	FetchDirections(ctx context.Context, body []byte) ([]byte, error)
}
