package routing

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/zatekoja/careassist/backend/pkg/errors"
)

func TestORSClient_FetchDirections(t *testing.T) {
	const requestBody = `{"coordinates":[[77.209,28.6139],[77.2167,28.6358]]}`
	const upstreamBody = `{"routes":[{"summary":{"distance":5000,"duration":600}}]}`

	var gotAuth, gotContentType, gotBody, gotMethod string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(upstreamBody))
	}))
	defer server.Close()

	client := NewORSClient(ORSOptions{URL: server.URL, APIKey: "test-key", HTTPClient: server.Client()})
	payload, err := client.FetchDirections(context.Background(), []byte(requestBody))
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "test-key", gotAuth)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, requestBody, gotBody)
	assert.Equal(t, upstreamBody, string(payload))
}

func TestORSClient_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"Access to this API has been disallowed"}`))
	}))
	defer server.Close()

	client := NewORSClient(ORSOptions{URL: server.URL, APIKey: "bad", HTTPClient: server.Client()})
	_, err := client.FetchDirections(context.Background(), []byte(`{}`))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUpstreamRoute))
	assert.Contains(t, err.Error(), "status 403")
}

func TestORSClient_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewORSClient(ORSOptions{URL: url, APIKey: "key"})
	_, err := client.FetchDirections(context.Background(), []byte(`{}`))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUpstreamRoute))
}
