package overpass

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/zatekoja/careassist/backend/internal/domain/entities"
	"github.com/zatekoja/careassist/backend/internal/geo"
	"github.com/zatekoja/careassist/backend/internal/infrastructure/observability"
)

// addressTags are consulted in order; the first non-empty value wins.
var addressTags = []string{"addr:full", "addr:street", "addr:city"}

type response struct {
	Elements *[]element `json:"elements"`
}

type element struct {
	Type   string            `json:"type"`
	ID     json.RawMessage   `json:"id"`
	Lat    *float64          `json:"lat"`
	Lon    *float64          `json:"lon"`
	Center *point            `json:"center"`
	Bounds *bounds           `json:"bounds"`
	Tags   map[string]string `json:"tags"`
}

type point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type bounds struct {
	MinLat float64 `json:"minlat"`
	MinLon float64 `json:"minlon"`
	MaxLat float64 `json:"maxlat"`
	MaxLon float64 `json:"maxlon"`
}

// Normalize decodes an Overpass JSON payload into candidates in response order.
// Elements without any usable position, or repeating an earlier id, are skipped.
// A payload that is not JSON or has no elements array is an error.
func Normalize(ctx context.Context, payload []byte, anchor entities.Coordinate) ([]entities.HospitalCandidate, error) {
	var resp response
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, fmt.Errorf("decode overpass response: %w", err)
	}
	if resp.Elements == nil {
		return nil, errors.New("overpass response has no elements")
	}

	logger := observability.LoggerFromContext(ctx)
	seen := make(map[string]struct{}, len(*resp.Elements))
	candidates := make([]entities.HospitalCandidate, 0, len(*resp.Elements))
	for _, el := range *resp.Elements {
		id := elementID(el)
		if id == "" {
			logger.Debug().Msg("Skipping overpass element without id")
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}

		coords, ok := elementCoordinate(el)
		if !ok {
			logger.Debug().Str("element", id).Msg("Skipping overpass element without position")
			continue
		}
		seen[id] = struct{}{}

		candidates = append(candidates, entities.HospitalCandidate{
			ID:         id,
			Name:       firstTag(el.Tags, []string{"name"}, entities.UnnamedHospital),
			Coords:     coords,
			DistanceKm: geo.DistanceKm(anchor, coords),
			Address:    firstTag(el.Tags, addressTags, entities.AddressNotAvailable),
			Website:    strings.TrimSpace(el.Tags["website"]),
		})
	}
	return candidates, nil
}

func elementID(el element) string {
	id := strings.TrimSpace(string(el.ID))
	if strings.HasPrefix(id, `"`) {
		var s string
		if err := json.Unmarshal(el.ID, &s); err != nil {
			return ""
		}
		id = strings.TrimSpace(s)
	}
	if id == "" || id == "null" {
		return ""
	}
	kind := el.Type
	if kind == "" {
		kind = "node"
	}
	return kind + "/" + id
}

// elementCoordinate prefers the element's own point, then the server-computed
// center, then the middle of its bounds.
func elementCoordinate(el element) (entities.Coordinate, bool) {
	var c entities.Coordinate
	switch {
	case el.Lat != nil && el.Lon != nil:
		c = entities.Coordinate{Latitude: *el.Lat, Longitude: *el.Lon}
	case el.Center != nil:
		c = entities.Coordinate{Latitude: el.Center.Lat, Longitude: el.Center.Lon}
	case el.Bounds != nil:
		c = geo.BoundsCenter(el.Bounds.MinLat, el.Bounds.MinLon, el.Bounds.MaxLat, el.Bounds.MaxLon)
	default:
		return entities.Coordinate{}, false
	}
	if c.Validate() != nil {
		return entities.Coordinate{}, false
	}
	return c, true
}

func firstTag(tags map[string]string, keys []string, fallback string) string {
	for _, key := range keys {
		if v := strings.TrimSpace(tags[key]); v != "" {
			return v
		}
	}
	return fallback
}
