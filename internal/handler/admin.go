package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"

	"pageinsights-api/internal/cache"
	"pageinsights-api/internal/repository"
	"pageinsights-api/pkg/apierror"
	"pageinsights-api/pkg/response"
)

// AdminHandler handles admin-related HTTP requests.
type AdminHandler struct {
	cache     *cache.Gateway
	profiles  repository.ProfileRepository
	posts     repository.PostRepository
	followers repository.FollowerRepository
	storeType string
	startTime time.Time
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(
	gw *cache.Gateway,
	profiles repository.ProfileRepository,
	posts repository.PostRepository,
	followers repository.FollowerRepository,
	storeType string,
) *AdminHandler {
	return &AdminHandler{
		cache:     gw,
		profiles:  profiles,
		posts:     posts,
		followers: followers,
		storeType: storeType,
		startTime: time.Now(),
	}
}

// GetStats handles GET /api/v1/admin/stats
func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	stats := make(map[string]interface{})

	stats["uptime_seconds"] = int64(time.Since(h.startTime).Seconds())
	stats["uptime_human"] = time.Since(h.startTime).Round(time.Second).String()
	stats["server_time"] = time.Now().UTC().Format(time.RFC3339)
	stats["store_type"] = h.storeType

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	stats["memory"] = map[string]interface{}{
		"alloc_mb":   float64(memStats.Alloc) / 1024 / 1024,
		"sys_mb":     float64(memStats.Sys) / 1024 / 1024,
		"num_gc":     memStats.NumGC,
		"goroutines": runtime.NumGoroutine(),
	}

	if err := h.cache.Ping(ctx); err == nil {
		stats["cache"] = map[string]interface{}{"status": "connected"}
	} else {
		stats["cache"] = map[string]interface{}{
			"status": "error",
			"error":  err.Error(),
		}
	}

	store := make(map[string]interface{})
	if n, err := h.profiles.Count(ctx); err == nil {
		store["profiles"] = n
	}
	if n, err := h.posts.Count(ctx); err == nil {
		store["posts"] = n
	}
	if n, err := h.followers.Count(ctx); err == nil {
		store["followers"] = n
	}
	stats["store"] = store

	response.OK(w, stats)
}

// InvalidateProfileCache handles DELETE /api/v1/admin/cache/profiles/{profile_id}
func (h *AdminHandler) InvalidateProfileCache(w http.ResponseWriter, r *http.Request) {
	profileID := chi.URLParam(r, "profile_id")
	if profileID == "" {
		response.Error(w, apierror.BadRequest("profile_id is required"))
		return
	}

	removed := h.cache.InvalidateProfile(r.Context(), profileID)

	response.OK(w, map[string]interface{}{
		"profile_id":      profileID,
		"entries_removed": removed,
	})
}

// InvalidateSearchCache handles DELETE /api/v1/admin/cache/search
func (h *AdminHandler) InvalidateSearchCache(w http.ResponseWriter, r *http.Request) {
	removed := h.cache.InvalidateSearch(r.Context())

	response.OK(w, map[string]interface{}{
		"entries_removed": removed,
	})
}
