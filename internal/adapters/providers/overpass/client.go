// Package overpass queries an Overpass API endpoint for hospitals around a point
// and normalizes the heterogeneous element shapes into hospital candidates.
package overpass

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/zatekoja/careassist/backend/internal/domain/entities"
	"github.com/zatekoja/careassist/backend/internal/domain/providers"
	"github.com/zatekoja/careassist/backend/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/careassist/backend/pkg/errors"
	"github.com/zatekoja/careassist/backend/pkg/retry"
)

const (
	// DefaultEndpoint is the public Overpass interpreter
	DefaultEndpoint = "https://overpass-api.de/api/interpreter"

	// MaxRadiusMeters caps the search radius to keep queries cheap for the public index
	MaxRadiusMeters = 50000

	defaultHTTPTimeout = 30 * time.Second
	userAgent          = "careassist-hospital-finder/1.0"
	maxResponseBytes   = 16 << 20
)

// Client implements providers.HospitalProvider against an Overpass endpoint.
type Client struct {
	endpoint    string
	httpClient  *http.Client
	retryConfig retry.Config
}

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	Endpoint    string
	HTTPClient  *http.Client
	Timeout     time.Duration
	MaxAttempts int
}

// NewClient creates a new Overpass client.
func NewClient(opts Options) *Client {
	endpoint := strings.TrimSpace(opts.Endpoint)
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultHTTPTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	attempts := opts.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	return &Client{
		endpoint:   endpoint,
		httpClient: httpClient,
		retryConfig: retry.Config{
			MaxAttempts:   attempts,
			InitialDelay:  500 * time.Millisecond,
			MaxDelay:      5 * time.Second,
			BackoffFactor: 2.0,
		},
	}
}

var _ providers.HospitalProvider = (*Client)(nil)

// BuildHospitalQuery returns the Overpass QL selecting hospital nodes, ways and
// relations within radiusMeters of anchor, asking for centroids of areas.
func BuildHospitalQuery(anchor entities.Coordinate, radiusMeters int) string {
	around := fmt.Sprintf("(around:%d,%g,%g)", radiusMeters, anchor.Latitude, anchor.Longitude)
	var b strings.Builder
	b.WriteString("[out:json][timeout:25];(")
	for _, kind := range []string{"node", "way", "relation"} {
		b.WriteString(kind)
		b.WriteString(`["amenity"="hospital"]`)
		b.WriteString(around)
		b.WriteString(";")
	}
	b.WriteString(");out center;")
	return b.String()
}

// FindHospitals queries the index and returns normalized candidates in
// response order, each with DistanceKm measured from anchor.
func (c *Client) FindHospitals(ctx context.Context, anchor entities.Coordinate, radiusMeters int) ([]entities.HospitalCandidate, error) {
	if err := anchor.Validate(); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if radiusMeters <= 0 || radiusMeters > MaxRadiusMeters {
		return nil, apperrors.NewValidationError(fmt.Sprintf("radius must be between 1 and %d meters", MaxRadiusMeters))
	}

	ctx, span := observability.StartSpan(ctx, "overpass.FindHospitals")
	defer span.End()
	observability.SetSpanAttributes(span,
		attribute.Float64("anchor.lat", anchor.Latitude),
		attribute.Float64("anchor.lon", anchor.Longitude),
		attribute.Int("radius_m", radiusMeters),
	)

	query := BuildHospitalQuery(anchor, radiusMeters)
	logger := observability.LoggerFromContext(ctx)

	var payload []byte
	err := retry.DoWithLog(ctx, c.retryConfig, "overpass", func() error {
		body, err := c.fetch(ctx, query)
		if err != nil {
			return err
		}
		payload = body
		return nil
	}, func(attempt int, err error, nextDelay time.Duration) {
		logger.Warn().Err(err).Int("attempt", attempt).Dur("next_delay", nextDelay).Msg("Overpass query failed, retrying")
	})
	if err != nil {
		observability.RecordError(span, err)
		observability.HospitalQueries.WithLabelValues("error").Inc()
		return nil, apperrors.NewQueryError("hospital query failed", err)
	}

	candidates, err := Normalize(ctx, payload, anchor)
	if err != nil {
		observability.RecordError(span, err)
		observability.HospitalQueries.WithLabelValues("error").Inc()
		return nil, apperrors.NewQueryError("malformed hospital query response", err)
	}

	observability.HospitalQueries.WithLabelValues("ok").Inc()
	observability.HospitalsReturned.Observe(float64(len(candidates)))
	span.SetAttributes(attribute.Int("hospitals", len(candidates)))
	return candidates, nil
}

func (c *Client) fetch(ctx context.Context, query string) ([]byte, error) {
	reqURL := c.endpoint + "?data=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, retry.Permanent(fmt.Errorf("failed to build overpass request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, retry.Permanent(fmt.Errorf("overpass request failed: %w", err))
		}
		return nil, fmt.Errorf("overpass request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		statusErr := fmt.Errorf("overpass returned status %d", resp.StatusCode)
		if isTransientStatus(resp.StatusCode) {
			return nil, statusErr
		}
		return nil, retry.Permanent(statusErr)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read overpass response: %w", err)
	}
	return body, nil
}

func isTransientStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
