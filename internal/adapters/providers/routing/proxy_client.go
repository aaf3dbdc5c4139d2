package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/zatekoja/careassist/backend/internal/domain/entities"
	"github.com/zatekoja/careassist/backend/internal/domain/providers"
)

// DefaultProxyURL is the local directions proxy
const DefaultProxyURL = "http://localhost:4000"

// DirectionsRequest is the body accepted by the directions proxy.
// Coordinates are [lon, lat] pairs.
type DirectionsRequest struct {
	Coordinates [][2]float64 `json:"coordinates"`
}

type routeSummary struct {
	Distance float64 `json:"distance"`
	Duration float64 `json:"duration"`
}

// directionsResponse covers both the JSON and GeoJSON response shapes.
type directionsResponse struct {
	Routes []struct {
		Summary *routeSummary `json:"summary"`
	} `json:"routes"`
	Features []struct {
		Properties struct {
			Summary *routeSummary `json:"summary"`
		} `json:"properties"`
	} `json:"features"`
}

// ProxyClient resolves routes through the directions proxy.
type ProxyClient struct {
	endpoint   string
	httpClient *http.Client
}

// NewProxyClient creates a client for the proxy at baseURL.
func NewProxyClient(baseURL string, httpClient *http.Client) *ProxyClient {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultProxyURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &ProxyClient{endpoint: baseURL + "/api/directions", httpClient: httpClient}
}

var _ providers.RouteProvider = (*ProxyClient)(nil)

// ResolveRoute requests a route from origin to destination and returns its summary.
func (c *ProxyClient) ResolveRoute(ctx context.Context, origin, destination entities.Coordinate) (*entities.RouteSummary, error) {
	body, err := json.Marshal(DirectionsRequest{
		Coordinates: [][2]float64{origin.LonLat(), destination.LonLat()},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode directions request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build directions request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("directions proxy request failed: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read directions response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("directions proxy returned status %d", resp.StatusCode)
	}

	return ParseRouteSummary(payload)
}

// ParseRouteSummary extracts the first route's summary from a directions response.
func ParseRouteSummary(payload []byte) (*entities.RouteSummary, error) {
	var parsed directionsResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode directions response: %w", err)
	}

	var summary *routeSummary
	switch {
	case len(parsed.Routes) > 0:
		summary = parsed.Routes[0].Summary
	case len(parsed.Features) > 0:
		summary = parsed.Features[0].Properties.Summary
	}
	if summary == nil {
		return nil, fmt.Errorf("directions response has no route summary")
	}
	if summary.Distance < 0 || summary.Duration < 0 {
		return nil, fmt.Errorf("directions response has a negative summary")
	}

	result := entities.NewRouteSummary(summary.Distance, summary.Duration)
	return &result, nil
}
