package services

import (
	"context"
	"fmt"
	"time"

	"github.com/zatekoja/careassist/backend/internal/domain/entities"
	"github.com/zatekoja/careassist/backend/internal/domain/providers"
	apperrors "github.com/zatekoja/careassist/backend/pkg/errors"
)

// DefaultRouteTimeout bounds how long a candidate may stay Resolving
const DefaultRouteTimeout = 15 * time.Second

// RouteResolver asks a RouteProvider for origin-destination summaries.
type RouteResolver struct {
	provider providers.RouteProvider
	timeout  time.Duration
}

// NewRouteResolver creates a new route resolver
func NewRouteResolver(provider providers.RouteProvider, timeout time.Duration) *RouteResolver {
	if timeout <= 0 {
		timeout = DefaultRouteTimeout
	}
	return &RouteResolver{provider: provider, timeout: timeout}
}

// ResolveRoute returns the route summary between origin and destination.
// Every failure, including the timeout, is a RouteResolution error.
func (r *RouteResolver) ResolveRoute(ctx context.Context, origin, destination entities.Coordinate) (*entities.RouteSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	summary, err := r.provider.ResolveRoute(ctx, origin, destination)
	if err != nil {
		return nil, apperrors.NewRouteResolutionError("route unavailable", err)
	}
	if summary == nil {
		return nil, apperrors.NewRouteResolutionError("route unavailable", fmt.Errorf("provider returned no summary"))
	}
	return summary, nil
}
