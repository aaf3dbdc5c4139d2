package services

import (
	"cmp"
	"slices"

	"github.com/zatekoja/careassist/backend/internal/domain/entities"
)

// RankByDistance returns a copy of candidates ordered by ascending DistanceKm.
// Equal distances keep their original relative order.
func RankByDistance(candidates []entities.HospitalCandidate) []entities.HospitalCandidate {
	ranked := slices.Clone(candidates)
	slices.SortStableFunc(ranked, func(a, b entities.HospitalCandidate) int {
		return cmp.Compare(a.DistanceKm, b.DistanceKm)
	})
	return ranked
}
