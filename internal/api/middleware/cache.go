package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/zatekoja/careassist/backend/internal/domain/providers"
	"github.com/zatekoja/careassist/backend/internal/infrastructure/observability"
)

// CacheMiddleware caches successful GET responses of one handler for a fixed TTL
type CacheMiddleware struct {
	cache      providers.CacheProvider
	name       string
	ttlSeconds int
	metrics    *observability.Metrics
}

// NewCacheMiddleware creates a response cache. A nil cache or non-positive TTL
// makes Wrap return the handler unchanged.
func NewCacheMiddleware(cache providers.CacheProvider, name string, ttlSeconds int, metrics *observability.Metrics) *CacheMiddleware {
	return &CacheMiddleware{cache: cache, name: name, ttlSeconds: ttlSeconds, metrics: metrics}
}

// Wrap returns next with response caching applied
func (m *CacheMiddleware) Wrap(next http.Handler) http.Handler {
	if m == nil || m.cache == nil || m.ttlSeconds <= 0 {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		logger := observability.LoggerFromContext(ctx)
		cacheKey := m.generateCacheKey(r)

		cached, err := m.cache.Get(ctx, cacheKey)
		if err == nil && !json.Valid(cached) {
			logger.Warn().Str("cache", m.name).Msg("Evicting unreadable cached response")
			if err := m.cache.Delete(ctx, cacheKey); err != nil {
				logger.Warn().Err(err).Str("cache", m.name).Msg("Failed to evict cached response")
			}
		} else if err == nil {
			observability.RecordCacheHit(ctx, m.metrics, m.name)
			w.Header().Set("X-Cache", "HIT")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(cached)
			return
		}

		observability.RecordCacheMiss(ctx, m.metrics, m.name)
		w.Header().Set("X-Cache", "MISS")

		recorder := &responseRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
			body:           &bytes.Buffer{},
		}
		next.ServeHTTP(recorder, r)

		// Degraded and error responses are never cached
		if recorder.statusCode == http.StatusOK && recorder.body.Len() > 0 {
			if err := m.cache.Set(ctx, cacheKey, recorder.body.Bytes(), m.ttlSeconds); err != nil {
				logger.Warn().Err(err).Str("cache", m.name).Msg("Failed to cache response")
			}
		}
	})
}

func (m *CacheMiddleware) generateCacheKey(r *http.Request) string {
	key := fmt.Sprintf("%s:%s", r.Method, r.URL.Path)
	if r.URL.RawQuery != "" {
		key += "?" + r.URL.Query().Encode()
	}
	hash := sha256.Sum256([]byte(key))
	return "http:" + m.name + ":" + hex.EncodeToString(hash[:])
}

// responseRecorder captures the response for caching
type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
	written    bool
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	if !r.written {
		r.statusCode = statusCode
		r.ResponseWriter.WriteHeader(statusCode)
		r.written = true
	}
}

func (r *responseRecorder) Write(data []byte) (int, error) {
	if !r.written {
		r.WriteHeader(http.StatusOK)
	}
	r.body.Write(data)
	return r.ResponseWriter.Write(data)
}
