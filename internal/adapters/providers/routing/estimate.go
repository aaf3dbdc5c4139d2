package routing

import (
	"context"

	"github.com/zatekoja/careassist/backend/internal/domain/entities"
	"github.com/zatekoja/careassist/backend/internal/domain/providers"
	"github.com/zatekoja/careassist/backend/internal/geo"
)

const (
	// AverageUrbanSpeedMps is roughly 50 km/h
	AverageUrbanSpeedMps = 13.89

	// TrafficFactor inflates the straight-line duration for traffic
	TrafficFactor = 1.3
)

// EstimateProvider produces route summaries from straight-line distance
// without any network call.
type EstimateProvider struct{}

// NewEstimateProvider creates a new offline estimator
func NewEstimateProvider() *EstimateProvider {
	return &EstimateProvider{}
}

var _ providers.RouteProvider = (*EstimateProvider)(nil)

// ResolveRoute estimates distance and travel time between two points.
func (p *EstimateProvider) ResolveRoute(ctx context.Context, origin, destination entities.Coordinate) (*entities.RouteSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	meters := geo.DistanceKm(origin, destination) * 1000
	seconds := meters / AverageUrbanSpeedMps * TrafficFactor
	summary := entities.NewRouteSummary(meters, seconds)
	return &summary, nil
}
