package admission

import (
	"context"
	"net"
	"net/http"
	"strings"
)

// Request carries everything a guard may look at. Staff is set by the
// transport when the waiter token header matches; coordinates come from the
// order body and may be absent.
type Request struct {
	Staff     bool
	Latitude  *float64
	Longitude *float64
	ClientIP  string
}

type Guard interface {
	Admit(ctx context.Context, req Request) error
}

// ClientIP extracts the caller's address, preferring the first entry of
// X-Forwarded-For when the service sits behind a proxy.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
