package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-redis/redis_rate/v9"

	"github.com/mkovacevic/equilog/internal/telemetry/metrics"
	"github.com/mkovacevic/equilog/pkg"
)

type RequestRateLimiter interface {
	Allow(ctx context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error)
}

// RateLimit guards a route with a per-client sliding window, allowedPerMin
// requests per minute. Clients are keyed by their resolved IP so one abusive
// source cannot exhaust the budget for everyone else.
func RateLimit(
	rateLimiter RequestRateLimiter,
	routerName string,
	allowedPerMin int,
	metricsManager *metrics.Manager,
) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limiterKey := routerName
			if userIP, err := pkg.ReadUserIP(r); err == nil {
				limiterKey = routerName + "::" + userIP
			}

			res, err := rateLimiter.Allow(
				r.Context(),
				limiterKey,
				redis_rate.PerMinute(allowedPerMin),
			)
			if err != nil {
				http.Error(w, "rate limit internal error", http.StatusInternalServerError)
				return
			}

			if res.Allowed > 0 {
				next.ServeHTTP(w, r)
				return
			}

			if metricsManager != nil {
				metricsManager.CounterLoginRateLimited.Inc()
			}

			retryAfterSeconds := res.RetryAfter.Seconds()
			w.Header().Set("Retry-After", strconv.Itoa(int(retryAfterSeconds)+1))
			http.Error(
				w,
				fmt.Sprintf("retry after %f seconds", retryAfterSeconds),
				http.StatusTooEarly,
			)
		})
	}
}
