package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHealthHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp := httptest.NewRecorder()
	Handler("1.2.3", "local")(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", ct)
	}

	var h Response
	if err := json.Unmarshal(resp.Body.Bytes(), &h); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if h.Status != StatusHealthy {
		t.Fatalf("expected status 'healthy', got %s", h.Status)
	}
	if h.Version != "1.2.3" || h.Greeter != "local" {
		t.Fatalf("unexpected response: %+v", h)
	}
}

func TestHealthHandlerOmitsEmptyFields(t *testing.T) {
	resp := httptest.NewRecorder()
	Handler("", "")(resp, httptest.NewRequest(http.MethodGet, "/health", nil))

	if got := resp.Body.String(); got != "{\"status\":\"healthy\"}\n" {
		t.Fatalf("unexpected body %q", got)
	}
}

func TestHealthHandlerHead(t *testing.T) {
	resp := httptest.NewRecorder()
	Handler("dev", "remote")(resp, httptest.NewRequest(http.MethodHead, "/health", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", resp.Code)
	}
	if resp.Body.Len() != 0 {
		t.Fatalf("expected empty body for HEAD, got %q", resp.Body.String())
	}
}
