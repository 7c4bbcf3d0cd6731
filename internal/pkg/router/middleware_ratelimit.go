package router

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ulule/limiter/v3"
)

// RateLimit limits requests per client IP and route. A nil limiter disables it.
// Store failures let the request through.
func RateLimit(l *limiter.Limiter) Middleware {
	return func(next http.Handler) http.Handler {
		if l == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.RemoteAddr + "|" + matchedRoutePath(r)

			lctx, err := l.Get(r.Context(), key)
			if err != nil {
				slog.WarnContext(r.Context(), "rate limiter unavailable", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(lctx.Limit, 10))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(lctx.Remaining, 10))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(lctx.Reset, 10))

			if lctx.Reached {
				writeError(w, "Too many requests. Please try again later.", "RATE_LIMITED", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
