package util

import (
	"net"
	"net/http"
	"strings"
)

const UnknownClient = "unknown"

// ClientIP walks the proxy header chain to find the requester address:
// X-Forwarded-For (first hop) -> X-Real-IP -> CF-Connecting-IP -> RemoteAddr.
// The first forwarded-for entry is trusted as the client, which any party
// ahead of the trusted proxy can forge; that trade-off is accepted and owned
// by the deployment, not hidden here.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first := strings.TrimSpace(strings.Split(fwd, ",")[0])
		if first != "" {
			return first
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if ip := strings.TrimSpace(r.Header.Get("CF-Connecting-IP")); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return UnknownClient
}

// UserAgent is best-effort; it never comes back empty.
func UserAgent(r *http.Request) string {
	if ua := r.UserAgent(); ua != "" {
		return ua
	}
	return UnknownClient
}
