package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type mapCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func (c *mapCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.items[key]; ok {
		return v, nil
	}
	return nil, errors.New("miss")
}

func (c *mapCache) Set(_ context.Context, key string, value []byte, _ int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
	return nil
}

func (c *mapCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	return nil
}

func TestCacheMiddleware_CachesOKResponses(t *testing.T) {
	calls := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"hospitals":[]}`))
	})
	h := NewCacheMiddleware(&mapCache{items: map[string][]byte{}}, "nearby", 60, nil).Wrap(next)

	first := httptest.NewRecorder()
	h.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/api/hospitals/nearby?lon=77.2&lat=28.6", nil))
	second := httptest.NewRecorder()
	h.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/api/hospitals/nearby?lat=28.6&lon=77.2", nil))

	assert.Equal(t, 1, calls)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.JSONEq(t, `{"hospitals":[]}`, second.Body.String())
}

func TestCacheMiddleware_SkipsDegradedResponses(t *testing.T) {
	calls := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error":"Failed to load hospitals. Please try again later."}`))
	})
	cache := &mapCache{items: map[string][]byte{}}
	h := NewCacheMiddleware(cache, "nearby", 60, nil).Wrap(next)

	for range 2 {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/hospitals/nearby", nil))
	}

	assert.Equal(t, 2, calls)
	assert.Empty(t, cache.items)
}

func TestCacheMiddleware_DisabledWithoutTTL(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	h := NewCacheMiddleware(&mapCache{items: map[string][]byte{}}, "nearby", 0, nil).Wrap(next)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/hospitals/nearby", nil))
	assert.Empty(t, w.Header().Get("X-Cache"))
}

func TestCacheMiddleware_EvictsUnreadableEntries(t *testing.T) {
	calls := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"hospitals":[]}`))
	})
	cache := &mapCache{items: map[string][]byte{}}
	mw := NewCacheMiddleware(cache, "nearby", 60, nil)
	h := mw.Wrap(next)

	req := httptest.NewRequest(http.MethodGet, "/api/hospitals/nearby", nil)
	cache.items[mw.generateCacheKey(req)] = []byte("{truncated")

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, 1, calls)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	assert.Equal(t, []byte(`{"hospitals":[]}`), cache.items[mw.generateCacheKey(req)])
}
