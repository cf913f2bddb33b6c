package http

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gemdesk/inventory-service/pkg/logger"
)

// CacheConfig holds cache configuration
type CacheConfig struct {
	DefaultTTL      time.Duration
	CacheableStatus []int
}

// DefaultCacheConfig returns default cache configuration
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		DefaultTTL:      5 * time.Minute,
		CacheableStatus: []int{200, 404},
	}
}

// cacheRecorder buffers the response so it can be written to Redis after the
// handler completes
type cacheRecorder struct {
	http.ResponseWriter
	statusCode int
	body       bytes.Buffer
}

func (cr *cacheRecorder) WriteHeader(code int) {
	cr.statusCode = code
	cr.ResponseWriter.WriteHeader(code)
}

func (cr *cacheRecorder) Write(b []byte) (int, error) {
	cr.body.Write(b)
	return cr.ResponseWriter.Write(b)
}

// CacheMiddleware implements GET response caching with Redis. Tree reads are
// expensive to recompute with stats, so cached responses are served until a
// mutation invalidates them or the TTL expires.
func CacheMiddleware(redisClient *redis.Client, config CacheConfig, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if redisClient == nil || r.Method != http.MethodGet {
			next.ServeHTTP(w, r)
			return
		}

		cacheKey := generateCacheKey(r)
		ctx := r.Context()

		cachedResponse, err := redisClient.Get(ctx, cacheKey).Bytes()
		if err == nil && len(cachedResponse) > 0 {
			logger.Logger.Debug().
				Str("path", r.URL.Path).
				Str("cache_key", cacheKey).
				Msg("Cache hit")

			w.Header().Set("X-Cache", "HIT")
			w.Header().Set("Content-Type", "application/json")
			w.Write(cachedResponse)
			return
		}

		logger.Logger.Debug().
			Str("path", r.URL.Path).
			Str("cache_key", cacheKey).
			Msg("Cache miss")

		recorder := &cacheRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		recorder.Header().Set("X-Cache", "MISS")
		next.ServeHTTP(recorder, r)

		if !isStatusCacheable(recorder.statusCode, config.CacheableStatus) {
			return
		}

		ttl := config.DefaultTTL
		if err := redisClient.Set(context.Background(), cacheKey, recorder.body.Bytes(), ttl).Err(); err != nil {
			logger.Logger.Warn().
				Err(err).
				Str("cache_key", cacheKey).
				Msg("Failed to cache response")
			return
		}

		logger.Logger.Debug().
			Str("path", r.URL.Path).
			Str("cache_key", cacheKey).
			Dur("ttl", ttl).
			Int("size", recorder.body.Len()).
			Msg("Response cached")
	}
}

// generateCacheKey generates a unique cache key for the request
func generateCacheKey(r *http.Request) string {
	keyComponents := fmt.Sprintf("%s:%s:%s",
		r.Method,
		r.URL.Path,
		r.URL.RawQuery,
	)

	hash := sha256.Sum256([]byte(keyComponents))
	return fmt.Sprintf("cache:%s", hex.EncodeToString(hash[:]))
}

// isStatusCacheable checks if status code is cacheable
func isStatusCacheable(status int, cacheableStatus []int) bool {
	for _, s := range cacheableStatus {
		if s == status {
			return true
		}
	}
	return false
}

// InvalidateCache invalidates cache for a specific pattern
func InvalidateCache(redisClient *redis.Client, pattern string) error {
	ctx := context.Background()

	iter := redisClient.Scan(ctx, 0, pattern, 0).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}

	if err := iter.Err(); err != nil {
		return err
	}

	if len(keys) > 0 {
		if err := redisClient.Del(ctx, keys...).Err(); err != nil {
			return err
		}

		logger.Logger.Info().
			Int("count", len(keys)).
			Str("pattern", pattern).
			Msg("Cache invalidated")
	}

	return nil
}
