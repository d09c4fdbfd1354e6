package security

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestHeadersMiddleware(t *testing.T) {
	cfg := DefaultHeadersConfig()
	cfg.PermissionsPolicy = ""
	h := NewHeadersMiddleware(cfg).Middleware(okHandler)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if got := rr.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q", got)
	}
	if got := rr.Header().Get("Content-Security-Policy"); got != cfg.CSP {
		t.Errorf("CSP = %q", got)
	}
	if _, ok := rr.Header()["Permissions-Policy"]; ok {
		t.Errorf("empty Permissions-Policy should not be sent")
	}
}

func TestStaticAssetMiddleware(t *testing.T) {
	rr := httptest.NewRecorder()
	StaticAssetMiddleware(60)(okHandler).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/static/app.js", nil))
	if got := rr.Header().Get("Cache-Control"); got != "public, max-age=60" {
		t.Errorf("Cache-Control = %q", got)
	}
}

func TestHostGuardAllowed(t *testing.T) {
	g := NewHostGuard("127.0.0.1", nil)
	cases := map[string]bool{
		"127.0.0.1:8050":  true,
		"localhost:8050":  true,
		"LOCALHOST":       true,
		"[::1]:8050":      true,
		"127.0.0.2":       true,
		"evil.example":    false,
		"evil.example:80": false,
		"192.168.1.10":    false,
	}
	for host, want := range cases {
		if got := g.Allowed(host); got != want {
			t.Errorf("Allowed(%q) = %v, want %v", host, got, want)
		}
	}
}

func TestHostGuardCustomAndUnspecified(t *testing.T) {
	if !NewHostGuard("statements.lan", nil).Allowed("statements.lan:8050") {
		t.Errorf("configured host should be allowed")
	}
	for _, bind := range []string{"0.0.0.0", "::", ""} {
		if !NewHostGuard(bind, nil).Allowed("anything.example") {
			t.Errorf("bind %q should disable the guard", bind)
		}
	}
}

func TestHostGuardMiddleware(t *testing.T) {
	g := NewHostGuard("127.0.0.1", nil)
	h := g.Middleware(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Host = "rebind.example"
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rr.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Host = "127.0.0.1:8050"
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	if got := g.GetMetrics().RejectedHosts; got != 1 {
		t.Errorf("RejectedHosts = %d, want 1", got)
	}
}
