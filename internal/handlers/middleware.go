package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/XavierBriggs/Janus/internal/metrics"
	"github.com/XavierBriggs/Janus/internal/ratelimit"
	"github.com/XavierBriggs/Janus/pkg/contracts"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

type ctxKey int

const uidKey ctxKey = iota

// UserID returns the authenticated caller stored by Authenticate
func UserID(ctx context.Context) (string, bool) {
	uid, ok := ctx.Value(uidKey).(string)
	return uid, ok && uid != ""
}

// Authenticate requires a valid bearer token and stores its uid in the request context
func Authenticate(idp contracts.IdentityProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			token = strings.TrimSpace(token)
			if !ok || token == "" {
				writeError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			uid, err := idp.Verify(r.Context(), token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), uidKey, uid)))
		})
	}
}

// RateLimit charges one request against the caller's quota for the request path
// Each concrete path has its own quota; metrics are labelled by route pattern
// Must run after Authenticate
func RateLimit(limiter *ratelimit.Limiter, m *metrics.Metrics, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uid, ok := UserID(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "missing user")
				return
			}

			endpoint := r.URL.Path
			if err := limiter.Allow(r.Context(), uid, endpoint); err != nil {
				if errors.Is(err, ratelimit.ErrRateLimitExceeded) {
					m.RateLimitHit(routePattern(r))
					writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
					return
				}
				logger.Error("rate limit check failed", "endpoint", endpoint, "error", err)
				writeError(w, http.StatusInternalServerError, "rate limit unavailable")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Observe records request metrics and an access log line
func Observe(m *metrics.Metrics, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := routePattern(r)
			elapsed := time.Since(start)

			m.HTTP(route, status, elapsed)
			logger.Debug("request",
				"method", r.Method,
				"route", route,
				"status", status,
				"duration", elapsed,
				"request_id", chimiddleware.GetReqID(r.Context()),
			)
		})
	}
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}
