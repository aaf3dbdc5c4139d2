package providers

import (
	"context"

	"github.com/zatekoja/careassist/backend/internal/domain/entities"
)

// HospitalProvider defines the interface for nearby hospital lookups
type HospitalProvider interface {
	// FindHospitals returns normalized candidates within radiusMeters of anchor,
	// in the order the POI source returned them.
	FindHospitals(ctx context.Context, anchor entities.Coordinate, radiusMeters int) ([]entities.HospitalCandidate, error)
}
