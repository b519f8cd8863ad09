package health

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestLiveness_Handler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()

	Liveness()(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d want 200", rr.Code)
	}
	ct := rr.Header().Get("Content-Type")
	if !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("content-type=%q want text/plain", ct)
	}
	if got := strings.TrimSpace(rr.Body.String()); got != "ok" {
		t.Fatalf("body=%q want ok", got)
	}
}

func TestReadiness_ReflectsReporter(t *testing.T) {
	cases := []struct {
		ready bool
		code  int
		body  string
	}{
		{true, http.StatusOK, "ready"},
		{false, http.StatusServiceUnavailable, "not_ready"},
	}
	for _, c := range cases {
		req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
		rr := httptest.NewRecorder()

		Readiness(ReadyFunc(func() bool { return c.ready }))(rr, req)

		if rr.Code != c.code {
			t.Fatalf("ready=%v: status=%d want %d", c.ready, rr.Code, c.code)
		}
		if !strings.Contains(rr.Body.String(), c.body) {
			t.Fatalf("ready=%v: body=%q want %q", c.ready, rr.Body.String(), c.body)
		}
	}
}

func TestReadiness_NilReporterIsReady(t *testing.T) {
	rr := httptest.NewRecorder()
	Readiness(nil)(rr, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d want 200", rr.Code)
	}
}
