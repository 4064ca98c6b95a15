package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func aggregatorWith(t *testing.T, checkers ...Checker) *Aggregator {
	t.Helper()
	agg := newTestAggregator(t, AggregatorConfig{})
	for _, c := range checkers {
		if err := agg.Register(c); err != nil {
			t.Fatalf("Register() error = %v", err)
		}
	}
	return agg
}

func TestLivenessHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	LivenessHandler()(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK || rec.Body.String() != "OK" {
		t.Errorf("response = %d %q, want 200 OK", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/plain" {
		t.Errorf("Content-Type = %q, want text/plain", ct)
	}
}

func TestReadinessHandler(t *testing.T) {
	tests := []struct {
		name     string
		result   Result
		wantCode int
		wantBody string
	}{
		{"healthy", Healthy("ok"), http.StatusOK, "OK"},
		{"degraded", Degraded("slow"), http.StatusOK, "DEGRADED"},
		{"unhealthy", Unhealthy("down", errors.New("x")), http.StatusServiceUnavailable, "UNHEALTHY"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := aggregatorWith(t, staticChecker("c", tt.result))
			rec := httptest.NewRecorder()
			ReadinessHandler(agg)(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			if rec.Code != tt.wantCode || rec.Body.String() != tt.wantBody {
				t.Errorf("response = %d %q, want %d %q", rec.Code, rec.Body.String(), tt.wantCode, tt.wantBody)
			}
		})
	}
}

func TestDetailedHandler(t *testing.T) {
	agg := aggregatorWith(t,
		staticChecker("ok", Healthy("fine").WithDetails(map[string]any{"entries": 3})),
		staticChecker("bad", Unhealthy("broken", errors.New("disk full"))),
	)
	rec := httptest.NewRecorder()
	DetailedHandler(agg)(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Code = %d, want 503", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "unhealthy" || resp.Timestamp == "" {
		t.Errorf("resp = %+v", resp)
	}
	if resp.Checks["bad"].Error != "disk full" {
		t.Errorf("bad.Error = %q, want disk full", resp.Checks["bad"].Error)
	}
	if resp.Checks["ok"].Details["entries"] != float64(3) {
		t.Errorf("ok.Details = %v", resp.Checks["ok"].Details)
	}
}

// TestRegisterHandlers verifies the routes, including per-check lookup.
func TestRegisterHandlers(t *testing.T) {
	agg := aggregatorWith(t,
		staticChecker("prices", Degraded("large")),
		NewCheckerFunc("ctx", func(ctx context.Context) Result { return Healthy("") }),
	)
	mux := http.NewServeMux()
	RegisterHandlers(mux, agg)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	tests := []struct {
		path     string
		wantCode int
	}{
		{"/healthz", http.StatusOK},
		{"/readyz", http.StatusOK},
		{"/health", http.StatusOK},
		{"/health/prices", http.StatusOK},
		{"/health/missing", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := http.Get(srv.URL + tt.path)
			if err != nil {
				t.Fatalf("GET %s error = %v", tt.path, err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.wantCode {
				t.Errorf("GET %s = %d, want %d", tt.path, resp.StatusCode, tt.wantCode)
			}
		})
	}

	resp, err := http.Get(srv.URL + "/health/prices")
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	defer resp.Body.Close()
	var check CheckResponse
	if err := json.NewDecoder(resp.Body).Decode(&check); err != nil {
		t.Fatalf("decode error = %v", err)
	}
	if check.Status != "degraded" || check.Message != "large" {
		t.Errorf("check = %+v", check)
	}
}
