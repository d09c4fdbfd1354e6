package http

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"creditlens/internal/log"
)

var knownRoutes = map[string]struct{}{
	"/":               {},
	"/api/summary":    {},
	"/api/comparison": {},
	"/ui/details":     {},
	"/healthz":        {},
	"/readyz":         {},
	"/metrics":        {},
}

// routeLabel keeps the metrics route label bounded.
func routeLabel(r *http.Request) string {
	p := r.URL.Path
	if _, ok := knownRoutes[p]; ok {
		return p
	}
	if strings.HasPrefix(p, "/static/") {
		return "/static/"
	}
	return "other"
}

// categoryParam reads the category query parameter.
func categoryParam(r *http.Request) string {
	return sanitizeInput(r.URL.Query().Get("category"))
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 {
			return -1
		}
		return r
	}, s)
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, r *http.Request, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.FromContext(r.Context()).WarnContext(r.Context(), "JSON encode failed", log.FieldError, err.Error())
	}
}

func hostOf(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}

// browsableAddr replaces an unspecified host with loopback.
func browsableAddr(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	if host == "" {
		host = "127.0.0.1"
	} else if ip := net.ParseIP(host); ip != nil && ip.IsUnspecified() {
		host = "127.0.0.1"
	}
	return net.JoinHostPort(host, port)
}
