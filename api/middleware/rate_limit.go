package middleware

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/muadee/storefront-gateway/api/responses"
	pkgerrors "github.com/muadee/storefront-gateway/pkg/errors"
	"github.com/muadee/storefront-gateway/pkg/logger"
	"github.com/muadee/storefront-gateway/pkg/redis"
)

// RateLimit caps requests per client IP within the window. A nil cache or a
// non-positive limit disables throttling so the route stays reachable when
// Redis is unavailable at startup.
func RateLimit(cfg RateLimitOptions, cache *redis.Client, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cache == nil || cfg.Limit <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			key := cache.RateLimitKey(cfg.Scope + ":" + clientIP(r))
			count, err := cache.IncrWithTTL(ctx, key, cfg.Window)
			if err != nil {
				// Counter failures must not lock shoppers out.
				if logg != nil {
					logg.Warn(logg.WithFields(ctx, map[string]any{"error": err.Error()}), "rate_limit.counter_failed")
				}
				next.ServeHTTP(w, r)
				return
			}

			if count > int64(cfg.Limit) {
				if logg != nil {
					logg.Warn(logg.WithFields(ctx, map[string]any{"scope": cfg.Scope, "count": count}), "rate_limit.exceeded")
				}
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many requests, try again later"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitOptions names the throttled scope and its budget.
type RateLimitOptions struct {
	Scope  string
	Limit  int
	Window time.Duration
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		if ip := strings.TrimSpace(parts[0]); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
