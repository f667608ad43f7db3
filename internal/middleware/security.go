package middleware

import (
	"net"
	"net/http"
	"net/url"
	"strings"
)

const (
	headerXContentTypeOptions     = "X-Content-Type-Options"
	headerXFrameOptions           = "X-Frame-Options"
	headerXXSSProtection          = "X-XSS-Protection"
	headerContentSecurityPolicy   = "Content-Security-Policy"
	headerStrictTransportSecurity = "Strict-Transport-Security"
)

// SecurityHeaders stops browsers from sniffing, framing or script-loading API
// responses from other origins.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set(headerXContentTypeOptions, "nosniff")
		h.Set(headerXFrameOptions, "DENY")
		h.Set(headerXXSSProtection, "1; mode=block")
		h.Set(headerContentSecurityPolicy, "default-src 'self'")
		next.ServeHTTP(w, r)
	})
}

// StrictTransport pins clients to HTTPS for a year.
func StrictTransport(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(headerStrictTransportSecurity, "max-age=31536000; includeSubDomains")
		next.ServeHTTP(w, r)
	})
}

// HostCheck rejects requests addressed to any host other than the public API
// host, as derived from HOST by HostnameOf. An empty host disables the check.
func HostCheck(allowedHost string) func(http.Handler) http.Handler {
	allowed := strings.TrimSpace(allowedHost)
	return func(next http.Handler) http.Handler {
		if allowed == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.EqualFold(requestHostname(r), allowed) {
				writeMessage(w, http.StatusForbidden, "Forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func requestHostname(r *http.Request) string {
	host := strings.TrimSpace(r.Host)
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}

// HostnameOf extracts the bare hostname from a base URL such as https://api.example.com:8443.
func HostnameOf(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// ProductionSecurity is the middleware chain used when ENV=production.
func ProductionSecurity(allowedHost string) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		SecurityHeaders,
		StrictTransport,
		HostCheck(allowedHost),
	}
}
