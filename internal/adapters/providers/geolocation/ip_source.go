package geolocation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/zatekoja/careassist/backend/internal/domain/entities"
	"github.com/zatekoja/careassist/backend/internal/domain/providers"
)

const (
	defaultIPLookupURL = "http://ip-api.com/json/"
	defaultHTTPTimeout = 8 * time.Second

	// ipLookupAccuracyMeters is a rough city-level accuracy for IP positioning
	ipLookupAccuracyMeters = 5000
)

var errLocationUnsupported = errors.New("location capability not available")

// IPSource estimates the host position from its public IP address using an
// ip-api.com compatible JSON endpoint.
type IPSource struct {
	lookupURL  string
	httpClient *http.Client
}

// NewIPSource creates a new IP lookup source.
func NewIPSource(lookupURL string, httpClient *http.Client) *IPSource {
	if strings.TrimSpace(lookupURL) == "" {
		lookupURL = defaultIPLookupURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &IPSource{lookupURL: lookupURL, httpClient: httpClient}
}

// Available reports whether a lookup endpoint is configured
func (s *IPSource) Available() bool {
	return s.lookupURL != ""
}

type ipLookupResponse struct {
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Lat     *float64 `json:"lat"`
	Lon     *float64 `json:"lon"`
}

// CurrentPosition performs one lookup. IP positioning is inherently coarse, so
// HighAccuracy is not honoured beyond being passed through as a best effort.
func (s *IPSource) CurrentPosition(ctx context.Context, opts providers.PositionOptions) (*providers.Fix, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.lookupURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build ip lookup request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ip lookup request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("ip lookup returned status %d", resp.StatusCode)
	}

	var payload ipLookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode ip lookup response: %w", err)
	}
	if payload.Status != "" && payload.Status != "success" {
		return nil, fmt.Errorf("ip lookup failed: %s", payload.Message)
	}
	if payload.Lat == nil || payload.Lon == nil {
		return nil, fmt.Errorf("ip lookup response has no coordinates")
	}

	coordinate := entities.Coordinate{Latitude: *payload.Lat, Longitude: *payload.Lon}
	if err := coordinate.Validate(); err != nil {
		return nil, err
	}

	return &providers.Fix{
		Coordinate: coordinate,
		Accuracy:   ipLookupAccuracyMeters,
		Timestamp:  time.Now(),
	}, nil
}
