// Copyright (c) 2025 Sugar Labs
// SPDX-License-Identifier: GPL-2.0-or-later

// HTTP middleware for the Sugar-AI service emulator: panic recovery,
// security headers, request logging, API key authentication, and
// per-key rate limiting.

package server

import (
	"crypto/subtle"
	"fmt"
	"log"
	"net"
	"net/http"
	"runtime/debug"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ============================================================================
// KEY AUTHENTICATION
// ============================================================================

// KeyAuthConfig controls the X-API-Key check on metered endpoints.
type KeyAuthConfig struct {
	// Keys is the set of accepted API keys. Empty accepts any non-empty
	// key, which is the right default for local development.
	Keys []string

	// ExemptPaths bypass the key check entirely.
	ExemptPaths []string
}

// DefaultKeyAuthConfig accepts any non-empty key and leaves the health
// and stats endpoints open.
func DefaultKeyAuthConfig() *KeyAuthConfig {
	return &KeyAuthConfig{
		ExemptPaths: []string{"/health", "/stats"},
	}
}

// isExempt reports whether the path skips the key check.
func (c *KeyAuthConfig) isExempt(path string) bool {
	for _, p := range c.ExemptPaths {
		if p == path {
			return true
		}
	}
	return false
}

// Matches reports whether the presented key is accepted.
// SECURITY: Comparison is constant-time per configured key so response
// timing does not leak how much of a key matched.
func (c *KeyAuthConfig) Matches(key string) bool {
	if key == "" {
		return false
	}

	if len(c.Keys) == 0 {
		return true
	}

	ok := false
	for _, accepted := range c.Keys {
		if subtle.ConstantTimeCompare([]byte(key), []byte(accepted)) == 1 {
			ok = true
		}
	}
	return ok
}

// KeyAuthMiddleware returns middleware that authenticates requests by
// their X-API-Key header.
//
// Checks (in order):
//  1. Exempt paths pass through untouched
//  2. A missing key is rejected with 401
//  3. A key outside the configured set is rejected with 401
func KeyAuthMiddleware(config *KeyAuthConfig, stats *ServerStats) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if config.isExempt(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			key := r.Header.Get("X-API-Key")
			if key == "" {
				stats.RecordAuthFailure()
				log.Printf("AUTH_DENIED | ip=%s path=%s reason=missing_key", clientIP(r), r.URL.Path)
				writeError(w, http.StatusUnauthorized, "Missing API key")
				return
			}

			if !config.Matches(key) {
				stats.RecordAuthFailure()
				log.Printf("AUTH_DENIED | ip=%s path=%s reason=invalid_key key=%s", clientIP(r), r.URL.Path, fingerprint(key))
				writeError(w, http.StatusUnauthorized, "Invalid API key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ============================================================================
// PER-KEY RATE LIMITER
// ============================================================================

// KeyLimiter hands out one token bucket per API key. The bucket starts
// with a full minute's budget and refills continuously.
type KeyLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
	perMin   int
}

// NewKeyLimiter creates a KeyLimiter allowing perMin requests per
// minute per key.
func NewKeyLimiter(perMin int) *KeyLimiter {
	if perMin < 1 {
		perMin = DefaultRatePerMin
	}
	return &KeyLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(float64(perMin) / 60.0),
		burst:    perMin,
		perMin:   perMin,
	}
}

// DefaultKeyLimiter returns a KeyLimiter with the default per-key rate.
func DefaultKeyLimiter() *KeyLimiter {
	return NewKeyLimiter(DefaultRatePerMin)
}

// get returns the limiter for a key, creating it on first sight.
func (kl *KeyLimiter) get(key string) *rate.Limiter {
	kl.mu.Lock()
	defer kl.mu.Unlock()

	lim, ok := kl.limiters[key]
	if !ok {
		lim = rate.NewLimiter(kl.limit, kl.burst)
		kl.limiters[key] = lim
	}
	return lim
}

// Allow reports whether the key may make another request now.
func (kl *KeyLimiter) Allow(key string) bool {
	return kl.get(key).Allow()
}

// PerMinute returns the configured per-key rate.
func (kl *KeyLimiter) PerMinute() int {
	return kl.perMin
}

// KeyRateLimitMiddleware returns middleware that enforces the per-key
// rate limit. Requests without a key pass through: the auth layer
// already bounces them on metered paths, and open paths are not
// metered.
//
// Returns 429 Too Many Requests with a Retry-After header when a key
// exceeds its rate.
func KeyRateLimitMiddleware(limiter *KeyLimiter, stats *ServerStats) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get("X-API-Key")
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", limiter.PerMinute()))

			if !limiter.Allow(key) {
				stats.RecordRateLimited()
				w.Header().Set("Retry-After", "60")
				log.Printf("RATE_LIMIT_EXCEEDED | key=%s path=%s limit=%d/min", fingerprint(key), r.URL.Path, limiter.PerMinute())
				writeError(w, http.StatusTooManyRequests, "Rate limit exceeded")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ============================================================================
// REQUEST LOGGING MIDDLEWARE
// ============================================================================

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

// newResponseWriter creates a wrapped response writer.
func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

// WriteHeader captures the status code before writing it.
func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware returns middleware that logs every request.
//
// Log format: "2025-01-15 14:30:45 | POST /ask | 200 | 1.234s"
func LoggingMiddleware(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapped := newResponseWriter(w)
			next.ServeHTTP(wrapped, r)

			duration := time.Since(start)
			timestamp := start.Format("2006-01-02 15:04:05")

			logger.Printf("%s | %s %s | %d | %.3fs",
				timestamp,
				r.Method,
				r.URL.Path,
				wrapped.statusCode,
				duration.Seconds(),
			)
		})
	}
}

// ============================================================================
// SECURITY HEADERS MIDDLEWARE
// ============================================================================

// SecurityHeadersMiddleware returns middleware that adds security
// headers to every response.
//
// Headers set:
//   - X-Content-Type-Options: nosniff
//   - X-Frame-Options: DENY
//   - Content-Security-Policy: default-src 'self'
//   - Cache-Control: no-store, no-cache, must-revalidate
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Prevent MIME type sniffing
			w.Header().Set("X-Content-Type-Options", "nosniff")

			// Prevent clickjacking
			w.Header().Set("X-Frame-Options", "DENY")

			// Content Security Policy
			w.Header().Set("Content-Security-Policy", "default-src 'self'")

			// Answers are keyed to a credential; keep them out of caches
			w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")

			next.ServeHTTP(w, r)
		})
	}
}

// ============================================================================
// RECOVERY MIDDLEWARE
// ============================================================================

// RecoveryMiddleware returns middleware that recovers from panics in
// downstream handlers, logs the stack trace, and answers 500 instead of
// letting the process die.
func RecoveryMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					stack := debug.Stack()

					log.Printf("PANIC_RECOVERED | method=%s path=%s error=%v\n%s",
						r.Method,
						r.URL.Path,
						err,
						string(stack),
					)

					writeError(w, http.StatusInternalServerError, "Internal server error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// ============================================================================
// MIDDLEWARE CHAIN HELPER
// ============================================================================

// Chain composes middleware functions into one. The first middleware is
// the outermost: it sees the request first and the response last.
//
// Example:
//
//	handler := Chain(
//	    RecoveryMiddleware(),
//	    LoggingMiddleware(logger),
//	    KeyAuthMiddleware(auth, stats),
//	)(mux)
func Chain(middlewares ...func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(final http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}

// ============================================================================
// IP EXTRACTION HELPER
// ============================================================================

// clientIP extracts the peer address from RemoteAddr. Forwarded
// headers are deliberately ignored: the emulator binds loopback, so the
// peer address is the real client and spoofed headers get no say.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
