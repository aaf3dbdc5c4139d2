// Package routing talks to driving-route providers: the OpenRouteService
// directions API behind the proxy, the proxy itself, and an offline estimate.
package routing

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/zatekoja/careassist/backend/internal/domain/providers"
	"github.com/zatekoja/careassist/backend/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/careassist/backend/pkg/errors"
)

const (
	// DefaultORSDirectionsURL is the driving-car directions endpoint
	DefaultORSDirectionsURL = "https://api.openrouteservice.org/v2/directions/driving-car"

	defaultHTTPTimeout = 15 * time.Second
	maxResponseBytes   = 8 << 20
)

// ORSClient forwards directions requests to OpenRouteService with the API key attached.
type ORSClient struct {
	url        string
	apiKey     string
	httpClient *http.Client
	metrics    *observability.Metrics
}

// ORSOptions configures an ORSClient
type ORSOptions struct {
	URL        string
	APIKey     string
	HTTPClient *http.Client
	Timeout    time.Duration
	Metrics    *observability.Metrics
}

// NewORSClient creates a new OpenRouteService client.
func NewORSClient(opts ORSOptions) *ORSClient {
	endpoint := strings.TrimSpace(opts.URL)
	if endpoint == "" {
		endpoint = DefaultORSDirectionsURL
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultHTTPTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &ORSClient{
		url:        endpoint,
		apiKey:     opts.APIKey,
		httpClient: httpClient,
		metrics:    opts.Metrics,
	}
}

var _ providers.DirectionsUpstream = (*ORSClient)(nil)

// FetchDirections posts body unchanged and returns the upstream body unchanged.
func (c *ORSClient) FetchDirections(ctx context.Context, body []byte) ([]byte, error) {
	ctx, span := observability.StartSpan(ctx, "ors.FetchDirections")
	defer span.End()
	span.SetAttributes(attribute.String("upstream.url", c.url))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.NewUpstreamRouteError("failed to build directions request", err)
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, application/geo+json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start)
	observability.RecordUpstreamMetric(ctx, c.metrics, "openrouteservice", elapsed)
	observability.DirectionsUpstreamSeconds.Observe(elapsed.Seconds())
	if err != nil {
		observability.RecordError(span, err)
		return nil, apperrors.NewUpstreamRouteError("directions request failed", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		observability.RecordError(span, err)
		return nil, apperrors.NewUpstreamRouteError("failed to read directions response", err)
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := fmt.Errorf("status %d: %s", resp.StatusCode, truncate(payload, 512))
		observability.RecordError(span, err)
		return nil, apperrors.NewUpstreamRouteError("directions provider returned an error", err)
	}
	return payload, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
