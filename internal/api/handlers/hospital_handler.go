package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/zatekoja/careassist/backend/internal/adapters/providers/geolocation"
	"github.com/zatekoja/careassist/backend/internal/adapters/providers/overpass"
	"github.com/zatekoja/careassist/backend/internal/application/services"
	"github.com/zatekoja/careassist/backend/internal/domain/entities"
	"github.com/zatekoja/careassist/backend/internal/domain/providers"
)

const msgHospitalsFailed = "Failed to load hospitals. Please try again later."

// HospitalHandler serves ranked nearby hospitals for thin clients.
type HospitalHandler struct {
	service *services.HospitalService
	geoCfg  services.GeolocatorConfig
}

// NewHospitalHandler creates a new hospital handler
func NewHospitalHandler(service *services.HospitalService, geoCfg services.GeolocatorConfig) *HospitalHandler {
	return &HospitalHandler{service: service, geoCfg: geoCfg}
}

type nearbyResponse struct {
	entities.NearbyResult
	Error string `json:"error,omitempty"`
}

// NearbyHospitals handles GET /api/hospitals/nearby?lat=&lon=&radius=.
func (h *HospitalHandler) NearbyHospitals(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	radius := 0
	if raw := strings.TrimSpace(query.Get("radius")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > overpass.MaxRadiusMeters {
			respondWithError(w, http.StatusBadRequest, fmt.Sprintf("radius must be between 1 and %d meters", overpass.MaxRadiusMeters))
			return
		}
		radius = parsed
	}

	locator := services.NewGeolocator(locationSourceFromQuery(query.Get("lat"), query.Get("lon")), h.geoCfg)
	result := h.service.Nearby(r.Context(), locator, radius)

	if result.Err != nil {
		respondWithJSON(w, http.StatusBadGateway, nearbyResponse{NearbyResult: result, Error: msgHospitalsFailed})
		return
	}
	respondWithJSON(w, http.StatusOK, nearbyResponse{NearbyResult: result})
}

// locationSourceFromQuery returns a static source when both parameters parse,
// otherwise a source that forces the fallback coordinate.
func locationSourceFromQuery(latParam, lonParam string) providers.LocationSource {
	lat, latErr := strconv.ParseFloat(strings.TrimSpace(latParam), 64)
	lon, lonErr := strconv.ParseFloat(strings.TrimSpace(lonParam), 64)
	if latErr != nil || lonErr != nil {
		return geolocation.UnavailableSource{}
	}
	return geolocation.NewStaticSource(entities.Coordinate{Latitude: lat, Longitude: lon})
}
