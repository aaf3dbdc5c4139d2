package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cliOverpassBody = `{"elements":[
	{"type":"node","id":11,"lat":28.5672,"lon":77.2100,"tags":{"name":"AIIMS Trauma Centre","addr:city":"New Delhi"}},
	{"type":"way","id":22,"center":{"lat":28.6250,"lon":77.2020},"tags":{"name":"Dr. Ram Manohar Lohia Hospital"}}
]}`

func executeCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("APP_ENV", "test")
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append(args, "--env-file", filepath.Join(t.TempDir(), "absent.env")))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func overpassServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestNearbyCommand(t *testing.T) {
	poi := overpassServer(t, http.StatusOK, cliOverpassBody)

	out, err := executeCLI(t, "nearby", "--lat", "28.6139", "--lon", "77.2090", "--overpass-url", poi.URL)
	require.NoError(t, err)

	assert.Contains(t, out, "Searching around 28.613900,77.209000")
	rml := bytes.Index([]byte(out), []byte("Dr. Ram Manohar Lohia Hospital"))
	aiims := bytes.Index([]byte(out), []byte("AIIMS Trauma Centre"))
	require.NotEqual(t, -1, rml)
	require.NotEqual(t, -1, aiims)
	assert.Less(t, rml, aiims, "nearest hospital is listed first")
	assert.Contains(t, out, "Address not available")
}

func TestNearbyCommand_JSON(t *testing.T) {
	poi := overpassServer(t, http.StatusOK, cliOverpassBody)

	out, err := executeCLI(t, "nearby", "--locate", "none", "--json", "--overpass-url", poi.URL)
	require.NoError(t, err)

	var payload struct {
		LocationFallback bool `json:"location_fallback"`
		RadiusMeters     int  `json:"radius_meters"`
		Hospitals        []struct {
			ID string `json:"id"`
		} `json:"hospitals"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.True(t, payload.LocationFallback)
	assert.Equal(t, 10000, payload.RadiusMeters)
	assert.Len(t, payload.Hospitals, 2)
}

func TestNearbyCommand_Degraded(t *testing.T) {
	poi := overpassServer(t, http.StatusBadRequest, `error`)

	out, err := executeCLI(t, "nearby", "--lat", "28.6139", "--lon", "77.2090", "--overpass-url", poi.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "Failed to load hospitals. Please try again later.")
}

func TestNearbyCommand_RequiresBothCoordinates(t *testing.T) {
	_, err := executeCLI(t, "nearby", "--lat", "28.6139")
	assert.ErrorContains(t, err, "--lat and --lon must be given together")
}

func TestRouteCommand_Estimate(t *testing.T) {
	poi := overpassServer(t, http.StatusOK, cliOverpassBody)

	out, err := executeCLI(t, "route", "--estimate", "--lat", "28.6139", "--lon", "77.2090", "--overpass-url", poi.URL)
	require.NoError(t, err)

	assert.Contains(t, out, "min")
	assert.Contains(t, out, "Dr. Ram Manohar Lohia Hospital: https://www.google.com/maps/dir/?api=1")
	assert.NotContains(t, out, "AIIMS Trauma Centre: https://")
}

func TestRouteCommand_ThroughProxy(t *testing.T) {
	poi := overpassServer(t, http.StatusOK, cliOverpassBody)
	calls := 0
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			_, _ = w.Write([]byte(`{"routes":[{"summary":{"distance":2500,"duration":420}}]}`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Failed to fetch directions"}`))
	}))
	t.Cleanup(proxy.Close)

	out, err := executeCLI(t, "route", "way/22",
		"--lat", "28.6139", "--lon", "77.2090",
		"--overpass-url", poi.URL, "--proxy-url", proxy.URL)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Contains(t, out, "~7 min")
}

func TestRouteCommand_UnknownID(t *testing.T) {
	poi := overpassServer(t, http.StatusOK, cliOverpassBody)

	_, err := executeCLI(t, "route", "node/999", "--estimate", "--lat", "28.6139", "--lon", "77.2090", "--overpass-url", poi.URL)
	assert.ErrorContains(t, err, "node/999")
}

func TestSessionsAndAuthCommands(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/sessions":
			_, _ = w.Write([]byte(`[{"session_id":"s-1","last_updated":"2025-03-01 12:00:00"}]`))
		case "/api/check-auth":
			_, _ = w.Write([]byte(`{"authenticated":true,"email":"asha@example.com"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(api.Close)

	out, err := executeCLI(t, "sessions", "list", "--session-url", api.URL+"/api")
	require.NoError(t, err)
	assert.Contains(t, out, "s-1")
	assert.Contains(t, out, "2025-03-01 12:00:00")

	out, err = executeCLI(t, "auth", "check", "--session-url", api.URL+"/api")
	require.NoError(t, err)
	assert.Equal(t, "Authenticated as asha@example.com\n", out)
}

func TestSessionCommands_HelpStatesCookieScope(t *testing.T) {
	for _, name := range []string{"sessions", "auth"} {
		out, err := executeCLI(t, name, "--help")
		require.NoError(t, err)
		assert.Contains(t, out, "Cookies are kept only for the duration of one command", name)
	}
}
