package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/2beens/gymdash/internal/telemetry/metrics"

	"github.com/go-redis/redis_rate/v9"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

type testRateLimiter struct {
	keys    []string
	allowed int
	err     error
}

func (l *testRateLimiter) Allow(_ context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error) {
	l.keys = append(l.keys, key)
	if l.err != nil {
		return nil, l.err
	}
	return &redis_rate.Result{
		Limit:      limit,
		Allowed:    l.allowed,
		RetryAfter: 30 * time.Second,
	}, nil
}

func TestRateLimit(t *testing.T) {
	metricsManager := metrics.NewTestManager()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	limiter := &testRateLimiter{allowed: 1}
	rr := httptest.NewRecorder()
	RouteRateLimiter(limiter, 10, metricsManager)("upload", next).ServeHTTP(rr, httptest.NewRequest("POST", "/api/upload", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []string{"gymdash::ratelimit::upload"}, limiter.keys)

	limiter.allowed = 0
	rr = httptest.NewRecorder()
	RouteRateLimiter(limiter, 10, metricsManager)("upload", next).ServeHTTP(rr, httptest.NewRequest("POST", "/api/upload", nil))
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.JSONEq(t, `{"error":"retry after 30 seconds"}`, rr.Body.String())
	assert.Equal(t, float64(1), testutil.ToFloat64(metricsManager.CounterRateLimitedRequests))

	limiter.err = errors.New("redis down")
	rr = httptest.NewRecorder()
	RateLimit(limiter, "add", 10, nil)(next).ServeHTTP(rr, httptest.NewRequest("POST", "/api/add", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
