package middleware

import (
	"net/http"
)

// PageCSP allows same-origin assets plus HTTPS images for borrower avatars.
const PageCSP = "default-src 'self'; img-src 'self' https: data:; style-src 'self' 'unsafe-inline'; script-src 'none'; frame-ancestors 'none'; base-uri 'self'"

// SecurityConfig holds configuration for security headers.
type SecurityConfig struct {
	// IsDevelopment disables HSTS in dev environments.
	IsDevelopment bool
	// ContentSecurityPolicy overrides PageCSP when set.
	ContentSecurityPolicy string
}

// Security returns a middleware that applies security headers to all responses.
//
// Headers applied:
//   - Strict-Transport-Security (HSTS) - only outside development
//   - X-Content-Type-Options: nosniff
//   - X-Frame-Options: DENY
//   - Referrer-Policy: strict-origin-when-cross-origin
//   - Content-Security-Policy
//   - Permissions-Policy
//   - Cross-Origin-Opener-Policy: same-origin
func Security(cfg SecurityConfig) func(http.Handler) http.Handler {
	csp := cfg.ContentSecurityPolicy
	if csp == "" {
		csp = PageCSP
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			h.Set("Content-Security-Policy", csp)
			h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=(), payment=(), usb=()")
			h.Set("Cross-Origin-Opener-Policy", "same-origin")

			// max-age=31536000 = 1 year
			if !cfg.IsDevelopment {
				h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
			}

			next.ServeHTTP(w, r)
		})
	}
}

// NoStore marks responses as uncacheable. Pages are rendered from live
// catalog data, so intermediaries must not keep them.
func NoStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}
