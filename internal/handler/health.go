package handler

import (
	"context"
	"net/http"
	"time"

	"pageinsights-api/internal/cache"
	"pageinsights-api/pkg/response"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles liveness and readiness probes.
type HealthHandler struct {
	version string
	cache   *cache.Gateway
	store   Pinger
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(version string, gw *cache.Gateway, store Pinger) *HealthHandler {
	return &HealthHandler{
		version: version,
		cache:   gw,
		store:   store,
	}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}

// Health handles GET /api/v1/health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   h.version,
	}
	response.OK(w, resp)
}

// ReadyResponse represents the readiness check response.
type ReadyResponse struct {
	Ready     bool      `json:"ready"`
	Timestamp time.Time `json:"timestamp"`
	Checks    []Check   `json:"checks"`
}

// Check represents an individual readiness check.
type Check struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

// Ready handles GET /api/v1/ready
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	checks := []Check{
		{Name: "cache", Status: pingStatus(h.cache.Ping(ctx))},
	}
	if h.store != nil {
		checks = append(checks, Check{Name: "store", Status: pingStatus(h.store.Ping(ctx))})
	}

	allReady := true
	for _, check := range checks {
		if check.Status != "ok" {
			allReady = false
			break
		}
	}

	resp := ReadyResponse{
		Ready:     allReady,
		Timestamp: time.Now().UTC(),
		Checks:    checks,
	}

	status := http.StatusOK
	if !allReady {
		status = http.StatusServiceUnavailable
	}
	response.JSON(w, status, resp)
}

func pingStatus(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
