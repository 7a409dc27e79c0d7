package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
)

func TestHealthHandler_Liveness(t *testing.T) {
	c, rec := newTestContext(http.MethodGet, "/health", "", nil)
	if err := NewHealthHandler().Liveness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || decodeBody(t, rec)["status"] != "ok" {
		t.Fatalf("unexpected liveness response: %d %s", rec.Code, rec.Body.String())
	}
}

func TestReadinessHandler(t *testing.T) {
	ok := DependencyCheck{Name: "postgres", Ping: func(context.Context) error { return nil }}
	down := DependencyCheck{Name: "redis", Ping: func(context.Context) error { return errors.New("connection refused") }}

	c, rec := newTestContext(http.MethodGet, "/health/ready", "", nil)
	if err := NewReadinessHandler(ok).Readiness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	c, rec = newTestContext(http.MethodGet, "/health/ready", "", nil)
	if err := NewReadinessHandler(ok, down).Readiness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	resp := decodeBody(t, rec)
	deps := resp["dependencies"].(map[string]any)
	if resp["status"] != "degraded" || deps["redis"].(map[string]any)["status"] != "unhealthy" {
		t.Fatalf("unexpected readiness payload: %+v", resp)
	}
}
