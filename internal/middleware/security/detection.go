package security

import (
	"net"
	"net/http"
	"strings"
	"sync/atomic"

	"creditlens/internal/log"
)

// DetectionMetrics tracks rejected requests
type DetectionMetrics struct {
	RejectedHosts int64
}

// HostGuard rejects requests whose Host header does not name the dashboard,
// which blocks DNS rebinding against the loopback listener.
type HostGuard struct {
	allowed map[string]struct{}
	open    bool
	metrics *DetectionMetrics
	logger  *log.Logger
}

// NewHostGuard allows loopback names plus bindHost. Binding to every
// interface ("", 0.0.0.0, ::) disables the check.
func NewHostGuard(bindHost string, logger *log.Logger) *HostGuard {
	if logger == nil {
		logger = log.Discard()
	}
	g := &HostGuard{
		allowed: map[string]struct{}{"localhost": {}},
		metrics: &DetectionMetrics{},
		logger:  logger.WithComponent(log.ComponentSecurity),
	}
	bindHost = normalizeHost(bindHost)
	if ip := net.ParseIP(bindHost); bindHost == "" || (ip != nil && ip.IsUnspecified()) {
		g.open = true
	}
	g.allowed[bindHost] = struct{}{}
	return g
}

// Allowed reports whether host (with or without port) may reach the dashboard.
func (g *HostGuard) Allowed(host string) bool {
	if g.open {
		return true
	}
	host = normalizeHost(host)
	if ip := net.ParseIP(host); ip != nil && ip.IsLoopback() {
		return true
	}
	_, ok := g.allowed[host]
	return ok
}

// Middleware answers 403 for disallowed hosts.
func (g *HostGuard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !g.Allowed(r.Host) {
			atomic.AddInt64(&g.metrics.RejectedHosts, 1)
			g.logger.WarnContext(r.Context(), "Request rejected for unknown host",
				"host", r.Host,
				log.FieldPath, r.URL.Path)
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetMetrics returns current security metrics
func (g *HostGuard) GetMetrics() DetectionMetrics {
	return DetectionMetrics{
		RejectedHosts: atomic.LoadInt64(&g.metrics.RejectedHosts),
	}
}

func normalizeHost(host string) string {
	host = strings.TrimSpace(host)
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.TrimSuffix(strings.TrimPrefix(host, "["), "]")
	return strings.ToLower(strings.TrimSuffix(host, "."))
}
