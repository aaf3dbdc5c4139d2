package geolocation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/careassist/backend/internal/domain/entities"
	"github.com/zatekoja/careassist/backend/internal/domain/providers"
)

func TestIPSource_CurrentPosition(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success","lat":19.076,"lon":72.8777,"query":"203.0.113.9"}`))
	}))
	defer server.Close()

	source := NewIPSource(server.URL, server.Client())
	require.True(t, source.Available())

	fix, err := source.CurrentPosition(context.Background(), providers.PositionOptions{})
	require.NoError(t, err)
	assert.Equal(t, entities.Coordinate{Latitude: 19.076, Longitude: 72.8777}, fix.Coordinate)
	assert.Equal(t, float64(ipLookupAccuracyMeters), fix.Accuracy)
}

func TestIPSource_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "lookup reports failure", status: http.StatusOK, body: `{"status":"fail","message":"private range"}`},
		{name: "missing coordinates", status: http.StatusOK, body: `{"status":"success"}`},
		{name: "out of range", status: http.StatusOK, body: `{"status":"success","lat":123,"lon":0}`},
		{name: "malformed body", status: http.StatusOK, body: `not json`},
		{name: "server error", status: http.StatusServiceUnavailable, body: ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			source := NewIPSource(server.URL, server.Client())
			_, err := source.CurrentPosition(context.Background(), providers.PositionOptions{})
			assert.Error(t, err)
		})
	}
}

func TestStaticAndUnavailableSources(t *testing.T) {
	coordinate := entities.Coordinate{Latitude: 12.9716, Longitude: 77.5946}
	fix, err := NewStaticSource(coordinate).CurrentPosition(context.Background(), providers.PositionOptions{})
	require.NoError(t, err)
	assert.Equal(t, coordinate, fix.Coordinate)

	_, err = NewStaticSource(entities.Coordinate{Latitude: 100}).CurrentPosition(context.Background(), providers.PositionOptions{})
	assert.Error(t, err)

	var unavailable UnavailableSource
	assert.False(t, unavailable.Available())
	_, err = unavailable.CurrentPosition(context.Background(), providers.PositionOptions{})
	assert.ErrorIs(t, err, errLocationUnsupported)
}
