package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHealthHandler(t *testing.T) {
	for _, method := range []string{http.MethodGet, http.MethodHead} {
		req := httptest.NewRequest(method, "/healthz", nil)
		rec := httptest.NewRecorder()

		healthHandler(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected status %d, got %d", method, http.StatusOK, rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
			t.Fatalf("%s: expected content-type application/json, got %q", method, ct)
		}
		want := healthResponse
		if method == http.MethodHead {
			want = ""
		}
		if body := rec.Body.String(); body != want {
			t.Fatalf("%s: unexpected body: %q", method, body)
		}
	}
}

func TestReadyHandler(t *testing.T) {
	healthy := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	rec := httptest.NewRecorder()
	readyHandler(map[string]ReadyCheck{"redis": healthy}, discardLogger())(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	rec = httptest.NewRecorder()
	readyHandler(map[string]ReadyCheck{"redis": down, "other": healthy}, discardLogger())(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status %d, got %d", http.StatusServiceUnavailable, rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, "connection refused") || strings.Contains(body, "other") {
		t.Fatalf("unexpected body: %q", body)
	}
}
