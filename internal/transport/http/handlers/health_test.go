package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestHealthHandler_Ready(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		opts   []HealthOption
		status int
		checks map[string]string
	}{
		{
			name:   "no checks",
			status: http.StatusOK,
			checks: map[string]string{},
		},
		{
			name: "all healthy",
			opts: []HealthOption{
				WithReadinessCheck("postgres", func(context.Context) error { return nil }),
			},
			status: http.StatusOK,
			checks: map[string]string{"postgres": "ok"},
		},
		{
			name: "redis down",
			opts: []HealthOption{
				WithReadinessCheck("postgres", func(context.Context) error { return nil }),
				WithReadinessCheck("redis", func(context.Context) error { return errors.New("dial tcp: refused") }),
			},
			status: http.StatusServiceUnavailable,
			checks: map[string]string{"postgres": "ok", "redis": "dial tcp: refused"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.opts...)
			router := gin.New()
			router.GET("/readyz", h.Ready)

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			if rr.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rr.Code)
			}

			var body ReadinessResponse
			if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if len(body.Checks) != len(tt.checks) {
				t.Fatalf("expected checks %v, got %v", tt.checks, body.Checks)
			}
			for name, want := range tt.checks {
				if body.Checks[name] != want {
					t.Fatalf("check %s: expected %q, got %q", name, want, body.Checks[name])
				}
			}
		})
	}
}

func TestHealthHandler_RootAndNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := NewHealthHandler()
	router := gin.New()
	router.GET("/", h.Root)
	router.NoRoute(h.NotFound)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusOK || rr.Body.String() != `{"status":"OK"}` {
		t.Fatalf("unexpected root response %d %s", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	var body ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil || body.Error != "API not found" {
		t.Fatalf("unexpected not found body %s", rr.Body.String())
	}
}
