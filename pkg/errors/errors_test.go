package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	err := NewQueryError("overpass request failed", fmt.Errorf("status 503"))
	assert.Equal(t, "QUERY: overpass request failed: status 503", err.Error())

	plain := NewCredentialMissingError("ORS_API_KEY is not set")
	assert.Equal(t, "CREDENTIAL_MISSING: ORS_API_KEY is not set", plain.Error())
}

func TestIsType(t *testing.T) {
	inner := NewUpstreamRouteError("upstream returned 503", nil)
	outer := NewRouteResolutionError("route unavailable", inner)
	wrapped := fmt.Errorf("resolve node/1: %w", outer)

	assert.True(t, IsType(wrapped, ErrorTypeRouteResolution))
	assert.True(t, IsType(wrapped, ErrorTypeUpstreamRoute))
	assert.False(t, IsType(wrapped, ErrorTypeQuery))
	assert.False(t, IsType(fmt.Errorf("plain"), ErrorTypeQuery))
	assert.False(t, IsType(nil, ErrorTypeQuery))
}
