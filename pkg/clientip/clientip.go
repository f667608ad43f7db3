package clientip

import (
	"net"
	"net/http"
	"strings"
)

// FromRequest returns the client IP of the request.
// It reads r.RemoteAddr only; run chi's middleware.RealIP in front of it when the
// server sits behind a trusted proxy so RemoteAddr already holds the forwarded address.
func FromRequest(r *http.Request) string {
	addr := strings.TrimSpace(r.RemoteAddr)
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		// RealIP stores a bare address without a port.
		return strings.Trim(addr, "[]")
	}
	return host
}
