package overpass_test

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/dnaeon/go-vcr.v4/pkg/cassette"
	"gopkg.in/dnaeon/go-vcr.v4/pkg/recorder"

	"github.com/zatekoja/careassist/backend/internal/adapters/providers/overpass"
	"github.com/zatekoja/careassist/backend/internal/application/services"
)

func TestFindHospitals_WithVCR(t *testing.T) {
	rec, err := recorder.New(
		filepath.Join("testdata", "overpass_hospitals_delhi"),
		recorder.WithMode(recorder.ModeReplayOnly),
		recorder.WithMatcher(func(r *http.Request, i cassette.Request) bool {
			return r.Method == i.Method && r.URL.Host == "overpass-api.de" && r.URL.Path == "/api/interpreter"
		}),
	)
	require.NoError(t, err)
	defer rec.Stop()

	client := overpass.NewClient(overpass.Options{
		HTTPClient: &http.Client{Transport: rec, Timeout: 10 * time.Second},
	})

	hospitals, err := client.FindHospitals(context.Background(), delhi, 10000)
	require.NoError(t, err)
	require.Len(t, hospitals, 4)

	ranked := services.RankByDistance(hospitals)
	assert.Equal(t, "way/48263915", ranked[0].ID)
	assert.Equal(t, "Dr. Ram Manohar Lohia Hospital", ranked[0].Name)
	for i := 1; i < len(ranked); i++ {
		assert.LessOrEqual(t, ranked[i-1].DistanceKm, ranked[i].DistanceKm)
	}
}
