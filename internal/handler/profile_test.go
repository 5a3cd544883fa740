package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pageinsights-api/internal/config"
	"pageinsights-api/internal/model"
	"pageinsights-api/internal/scraper"
	"pageinsights-api/internal/summary"
)

// stubService records calls and serves canned results.
type stubService struct {
	profile    *model.Profile
	profileErr error

	searchResult  *model.PagedResult[model.Profile]
	searchFilters model.SearchFilters

	postsResult *model.PagedResult[model.Post]
	postsPage   int
	postsLimit  int

	followersResult *model.PagedResult[model.Follower]

	summaryText string
	summaryErr  error
}

func (s *stubService) GetProfile(_ context.Context, id string) (*model.Profile, error) {
	if s.profileErr != nil {
		return nil, s.profileErr
	}
	return s.profile, nil
}

func (s *stubService) Search(_ context.Context, f model.SearchFilters) (*model.PagedResult[model.Profile], error) {
	s.searchFilters = f
	if s.searchResult != nil {
		return s.searchResult, nil
	}
	env := model.NewPagedResult([]model.Profile{}, 0, f.Page, f.Limit)
	return &env, nil
}

func (s *stubService) GetPosts(_ context.Context, id string, page, limit int) (*model.PagedResult[model.Post], error) {
	s.postsPage, s.postsLimit = page, limit
	if s.postsResult != nil {
		return s.postsResult, nil
	}
	env := model.NewPagedResult([]model.Post{}, 0, page, limit)
	return &env, nil
}

func (s *stubService) GetFollowers(_ context.Context, id string, page, limit int) (*model.PagedResult[model.Follower], error) {
	if s.followersResult != nil {
		return s.followersResult, nil
	}
	env := model.NewPagedResult([]model.Follower{}, 0, page, limit)
	return &env, nil
}

func (s *stubService) GetSummary(_ context.Context, id string) (string, error) {
	if s.summaryErr != nil {
		return "", s.summaryErr
	}
	return s.summaryText, nil
}

func defaultPagination() config.PaginationConfig {
	return config.PaginationConfig{
		SearchDefaultLimit:    10,
		SearchMaxLimit:        100,
		PostsDefaultLimit:     15,
		PostsMaxLimit:         50,
		FollowersDefaultLimit: 10,
		FollowersMaxLimit:     50,
	}
}

func newTestRouter(svc ProfileService) *chi.Mux {
	h := NewProfileHandler(svc, defaultPagination())
	r := chi.NewRouter()
	r.Get("/api/v1/profiles/search", h.Search)
	r.Get("/api/v1/profiles/{profile_id}", h.GetProfile)
	r.Get("/api/v1/profiles/{profile_id}/posts", h.GetPosts)
	r.Get("/api/v1/profiles/{profile_id}/followers", h.GetFollowers)
	r.Get("/api/v1/profiles/{profile_id}/summary", h.GetSummary)
	return r
}

func doRequest(t *testing.T, router *chi.Mux, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestGetProfileOK(t *testing.T) {
	svc := &stubService{profile: &model.Profile{ProfileID: "acme", Name: "Acme Co"}}
	router := newTestRouter(svc)

	rec, body := doRequest(t, router, "/api/v1/profiles/acme")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	data := body["data"].(map[string]any)
	assert.Equal(t, "Acme Co", data["name"])
}

func TestGetProfileAcquisitionFailureIsBadGateway(t *testing.T) {
	svc := &stubService{profileErr: &scraper.AcquisitionError{
		ProfileID: "ghost", Kind: "profile", Err: errors.New("blocked"),
	}}
	router := newTestRouter(svc)

	rec, body := doRequest(t, router, "/api/v1/profiles/ghost")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, false, body["success"])
	errObj := body["error"].(map[string]any)
	assert.Equal(t, "BAD_GATEWAY", errObj["code"])
}

func TestSearchDefaultsAndClamping(t *testing.T) {
	svc := &stubService{}
	router := newTestRouter(svc)

	rec, _ := doRequest(t, router, "/api/v1/profiles/search")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, svc.searchFilters.Page)
	assert.Equal(t, 10, svc.searchFilters.Limit)

	rec, _ = doRequest(t, router, "/api/v1/profiles/search?limit=500&page=3")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, svc.searchFilters.Page)
	assert.Equal(t, 100, svc.searchFilters.Limit)
}

func TestSearchFilterParsing(t *testing.T) {
	svc := &stubService{}
	router := newTestRouter(svc)

	rec, _ := doRequest(t, router,
		"/api/v1/profiles/search?min_followers=1000&max_followers=50000&industry=Tech&name=acme")
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.searchFilters.MinFollowers)
	assert.Equal(t, int64(1000), *svc.searchFilters.MinFollowers)
	require.NotNil(t, svc.searchFilters.MaxFollowers)
	assert.Equal(t, int64(50000), *svc.searchFilters.MaxFollowers)
	assert.Equal(t, "Tech", svc.searchFilters.Industry)
	assert.Equal(t, "acme", svc.searchFilters.Name)
}

func TestSearchRejectsBadFilters(t *testing.T) {
	router := newTestRouter(&stubService{})

	cases := []struct {
		name string
		path string
	}{
		{"non-numeric min", "/api/v1/profiles/search?min_followers=abc"},
		{"negative max", "/api/v1/profiles/search?max_followers=-5"},
		{"inverted range", "/api/v1/profiles/search?min_followers=100&max_followers=10"},
		{"zero page", "/api/v1/profiles/search?page=0"},
		{"bad limit", "/api/v1/profiles/search?limit=abc"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, body := doRequest(t, router, tc.path)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, false, body["success"])
		})
	}
}

func TestSearchResponseCarriesMeta(t *testing.T) {
	env := model.NewPagedResult([]model.Profile{
		{ProfileID: "a", Name: "Alpha"},
	}, 21, 2, 10)
	svc := &stubService{searchResult: &env}
	router := newTestRouter(svc)

	rec, body := doRequest(t, router, "/api/v1/profiles/search?page=2")
	assert.Equal(t, http.StatusOK, rec.Code)

	meta := body["meta"].(map[string]any)
	assert.Equal(t, float64(2), meta["page"])
	assert.Equal(t, float64(10), meta["limit"])
	assert.Equal(t, float64(21), meta["total"])
	assert.Equal(t, float64(3), meta["pages"])
}

func TestGetPostsUsesPostsLimits(t *testing.T) {
	svc := &stubService{}
	router := newTestRouter(svc)

	rec, _ := doRequest(t, router, "/api/v1/profiles/acme/posts")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, svc.postsPage)
	assert.Equal(t, 15, svc.postsLimit)

	rec, _ = doRequest(t, router, "/api/v1/profiles/acme/posts?limit=200")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 50, svc.postsLimit)
}

func TestGetSummaryDisabledIsServiceUnavailable(t *testing.T) {
	svc := &stubService{summaryErr: summary.ErrDisabled}
	router := newTestRouter(svc)

	rec, body := doRequest(t, router, "/api/v1/profiles/acme/summary")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	errObj := body["error"].(map[string]any)
	assert.Equal(t, "SERVICE_UNAVAILABLE", errObj["code"])
}

func TestGetSummaryOK(t *testing.T) {
	svc := &stubService{summaryText: "Acme Co is a manufacturer."}
	router := newTestRouter(svc)

	rec, body := doRequest(t, router, "/api/v1/profiles/acme/summary")
	assert.Equal(t, http.StatusOK, rec.Code)
	data := body["data"].(map[string]any)
	assert.Equal(t, "acme", data["profile_id"])
	assert.Equal(t, "Acme Co is a manufacturer.", data["summary"])
}
