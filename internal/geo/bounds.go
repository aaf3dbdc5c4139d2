package geo

import (
	"github.com/paulmach/orb"
	"github.com/zatekoja/careassist/backend/internal/domain/entities"
)

// BoundsCenter returns the centre of a lat/lon bounding box. It is used for
// area elements that came back without a precomputed center.
func BoundsCenter(minLat, minLon, maxLat, maxLon float64) entities.Coordinate {
	bound := orb.Bound{
		Min: orb.Point{minLon, minLat},
		Max: orb.Point{maxLon, maxLat},
	}
	center := bound.Center()
	return entities.Coordinate{Latitude: center.Lat(), Longitude: center.Lon()}
}
