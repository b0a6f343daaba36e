package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/d1sgu1sed/DogCollars/internal/api/metrics"
)

// Limiter takes one token for subject.
type Limiter interface {
	Allow(ctx context.Context, subject string) (bool, time.Duration, error)
}

// RateLimit rejects requests with 429 once the caller's bucket is empty.
// Callers are keyed by client IP. Limiter failures let the request through.
func RateLimit(limiter Limiter, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if limiter == nil {
				return next(c)
			}

			ok, wait, err := limiter.Allow(c.Request().Context(), c.RealIP())
			if err != nil {
				log.Warn().Err(err).Str("path", c.Path()).Msg("rate limiter unavailable, allowing request")
				return next(c)
			}
			if !ok {
				metrics.LoginAttemptsTotal.WithLabelValues("rate_limited").Inc()
				secs := int(math.Ceil(wait.Seconds()))
				if secs < 1 {
					secs = 1
				}
				c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
				return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests")
			}
			return next(c)
		}
	}
}
