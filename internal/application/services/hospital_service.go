package services

import (
	"context"

	"github.com/zatekoja/careassist/backend/internal/domain/entities"
	"github.com/zatekoja/careassist/backend/internal/domain/providers"
	"github.com/zatekoja/careassist/backend/internal/infrastructure/observability"
)

// DefaultRadiusMeters is the canonical hospital search radius
const DefaultRadiusMeters = 10000

// HospitalService runs the locate, query and rank pipeline for one view.
type HospitalService struct {
	provider      providers.HospitalProvider
	defaultRadius int
}

// NewHospitalService creates a new hospital discovery service
func NewHospitalService(provider providers.HospitalProvider, defaultRadius int) *HospitalService {
	if defaultRadius <= 0 {
		defaultRadius = DefaultRadiusMeters
	}
	return &HospitalService{provider: provider, defaultRadius: defaultRadius}
}

// DefaultRadius returns the radius used when callers pass zero
func (s *HospitalService) DefaultRadius() int {
	return s.defaultRadius
}

// Nearby acquires an anchor, queries hospitals around it and ranks them.
// It never fails: a query error is carried in the result with an empty list.
func (s *HospitalService) Nearby(ctx context.Context, locator Locator, radiusMeters int) entities.NearbyResult {
	if radiusMeters <= 0 {
		radiusMeters = s.defaultRadius
	}

	acquisition := locator.Acquire(ctx)
	result := entities.NearbyResult{
		Anchor:           acquisition.Coordinate,
		LocationFallback: acquisition.Fallback,
		RadiusMeters:     radiusMeters,
		Hospitals:        []entities.HospitalCandidate{},
	}

	candidates, err := s.provider.FindHospitals(ctx, acquisition.Coordinate, radiusMeters)
	if err != nil {
		observability.LoggerFromContext(ctx).Error().Err(err).
			Stringer("anchor", acquisition.Coordinate).
			Int("radius_m", radiusMeters).
			Msg("Error fetching hospitals")
		result.Err = err
		return result
	}

	result.Hospitals = RankByDistance(candidates)
	return result
}
