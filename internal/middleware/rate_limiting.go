package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/2beens/gymdash/internal/telemetry/metrics"
	"github.com/2beens/gymdash/pkg"

	"github.com/go-redis/redis_rate/v9"
	log "github.com/sirupsen/logrus"
)

type RequestRateLimiter interface {
	Allow(ctx context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error)
}

func RateLimit(rateLimiter RequestRateLimiter, routeName string, allowedPerMin int, metricsManager *metrics.Manager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res, err := rateLimiter.Allow(
				r.Context(),
				"gymdash::ratelimit::"+routeName,
				redis_rate.PerMinute(allowedPerMin),
			)
			if err != nil {
				log.Errorf("rate limit [%s]: %s", routeName, err)
				pkg.WriteJSONError(w, "rate limit internal error", http.StatusInternalServerError)
				return
			}

			if res.Allowed > 0 {
				next.ServeHTTP(w, r)
				return
			}

			if metricsManager != nil {
				metricsManager.CounterRateLimitedRequests.Inc()
			}
			pkg.WriteJSONError(
				w,
				fmt.Sprintf("retry after %.0f seconds", res.RetryAfter.Seconds()),
				http.StatusTooManyRequests,
			)
		})
	}
}

// RouteRateLimiter returns a per-route wrapper, each route with its own budget.
func RouteRateLimiter(rateLimiter RequestRateLimiter, allowedPerMin int, metricsManager *metrics.Manager) func(routeName string, next http.Handler) http.Handler {
	return func(routeName string, next http.Handler) http.Handler {
		return RateLimit(rateLimiter, routeName, allowedPerMin, metricsManager)(next)
	}
}
