package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"pageinsights-api/internal/config"
	"pageinsights-api/internal/model"
	"pageinsights-api/internal/repository"
	"pageinsights-api/internal/scraper"
	"pageinsights-api/internal/summary"
	"pageinsights-api/pkg/apierror"
	"pageinsights-api/pkg/response"
)

// ProfileService is the retrieval surface the handler depends on.
type ProfileService interface {
	GetProfile(ctx context.Context, profileID string) (*model.Profile, error)
	Search(ctx context.Context, f model.SearchFilters) (*model.PagedResult[model.Profile], error)
	GetPosts(ctx context.Context, profileID string, page, limit int) (*model.PagedResult[model.Post], error)
	GetFollowers(ctx context.Context, profileID string, page, limit int) (*model.PagedResult[model.Follower], error)
	GetSummary(ctx context.Context, profileID string) (string, error)
}

// ProfileHandler handles profile-related HTTP requests.
type ProfileHandler struct {
	service    ProfileService
	pagination config.PaginationConfig
	validate   *validator.Validate
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(service ProfileService, pagination config.PaginationConfig) *ProfileHandler {
	return &ProfileHandler{
		service:    service,
		pagination: pagination,
		validate:   validator.New(),
	}
}

// GetProfile handles GET /api/v1/profiles/{profile_id}
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profileID := chi.URLParam(r, "profile_id")
	if profileID == "" {
		response.Error(w, apierror.BadRequest("profile_id is required"))
		return
	}

	profile, err := h.service.GetProfile(r.Context(), profileID)
	if err != nil {
		response.Error(w, mapServiceError(err))
		return
	}

	response.OK(w, profile)
}

// Search handles GET /api/v1/profiles/search
func (h *ProfileHandler) Search(w http.ResponseWriter, r *http.Request) {
	filters, err := h.parseSearchFilters(r)
	if err != nil {
		response.Error(w, err)
		return
	}

	result, svcErr := h.service.Search(r.Context(), filters)
	if svcErr != nil {
		response.Error(w, mapServiceError(svcErr))
		return
	}

	response.JSONWithMeta(w, http.StatusOK, result.Data,
		result.Page, result.Limit, result.Total, result.Pages)
}

// GetPosts handles GET /api/v1/profiles/{profile_id}/posts
func (h *ProfileHandler) GetPosts(w http.ResponseWriter, r *http.Request) {
	profileID := chi.URLParam(r, "profile_id")
	if profileID == "" {
		response.Error(w, apierror.BadRequest("profile_id is required"))
		return
	}

	page, limit, err := parsePageLimit(r,
		h.pagination.PostsDefaultLimit, h.pagination.PostsMaxLimit)
	if err != nil {
		response.Error(w, err)
		return
	}

	result, svcErr := h.service.GetPosts(r.Context(), profileID, page, limit)
	if svcErr != nil {
		response.Error(w, mapServiceError(svcErr))
		return
	}

	response.JSONWithMeta(w, http.StatusOK, result.Data,
		result.Page, result.Limit, result.Total, result.Pages)
}

// GetFollowers handles GET /api/v1/profiles/{profile_id}/followers
func (h *ProfileHandler) GetFollowers(w http.ResponseWriter, r *http.Request) {
	profileID := chi.URLParam(r, "profile_id")
	if profileID == "" {
		response.Error(w, apierror.BadRequest("profile_id is required"))
		return
	}

	page, limit, err := parsePageLimit(r,
		h.pagination.FollowersDefaultLimit, h.pagination.FollowersMaxLimit)
	if err != nil {
		response.Error(w, err)
		return
	}

	result, svcErr := h.service.GetFollowers(r.Context(), profileID, page, limit)
	if svcErr != nil {
		response.Error(w, mapServiceError(svcErr))
		return
	}

	response.JSONWithMeta(w, http.StatusOK, result.Data,
		result.Page, result.Limit, result.Total, result.Pages)
}

// GetSummary handles GET /api/v1/profiles/{profile_id}/summary
func (h *ProfileHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	profileID := chi.URLParam(r, "profile_id")
	if profileID == "" {
		response.Error(w, apierror.BadRequest("profile_id is required"))
		return
	}

	text, err := h.service.GetSummary(r.Context(), profileID)
	if err != nil {
		response.Error(w, mapServiceError(err))
		return
	}

	response.OK(w, map[string]string{
		"profile_id": profileID,
		"summary":    text,
	})
}

// parseSearchFilters builds validated search filters from query parameters.
func (h *ProfileHandler) parseSearchFilters(r *http.Request) (model.SearchFilters, error) {
	q := r.URL.Query()

	page, limit, err := parsePageLimit(r,
		h.pagination.SearchDefaultLimit, h.pagination.SearchMaxLimit)
	if err != nil {
		return model.SearchFilters{}, err
	}

	filters := model.SearchFilters{
		Industry: strings.TrimSpace(q.Get("industry")),
		Name:     strings.TrimSpace(q.Get("name")),
		Page:     page,
		Limit:    limit,
	}

	if raw := q.Get("min_followers"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || v < 0 {
			return model.SearchFilters{}, apierror.BadRequest("min_followers must be a non-negative integer")
		}
		filters.MinFollowers = &v
	}
	if raw := q.Get("max_followers"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || v < 0 {
			return model.SearchFilters{}, apierror.BadRequest("max_followers must be a non-negative integer")
		}
		filters.MaxFollowers = &v
	}
	if filters.MinFollowers != nil && filters.MaxFollowers != nil &&
		*filters.MinFollowers > *filters.MaxFollowers {
		return model.SearchFilters{}, apierror.BadRequest("min_followers cannot exceed max_followers")
	}

	if err := h.validate.Struct(filters); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			details := make([]apierror.FieldError, 0, len(verrs))
			for _, fe := range verrs {
				details = append(details, apierror.FieldError{
					Field:   strings.ToLower(fe.Field()),
					Message: "failed validation on " + fe.Tag(),
				})
			}
			return model.SearchFilters{}, apierror.ValidationError("invalid search filters", details...)
		}
		return model.SearchFilters{}, apierror.BadRequest("invalid search filters")
	}

	return filters, nil
}

// parsePageLimit parses and clamps pagination query parameters.
func parsePageLimit(r *http.Request, defaultLimit, maxLimit int) (int, int, error) {
	q := r.URL.Query()

	page := 1
	if raw := q.Get("page"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return 0, 0, apierror.BadRequest("page must be a positive integer")
		}
		page = v
	}

	limit := defaultLimit
	if raw := q.Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return 0, 0, apierror.BadRequest("limit must be a positive integer")
		}
		limit = v
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	return page, limit, nil
}

// mapServiceError translates domain errors into API errors.
func mapServiceError(err error) error {
	var acqErr *scraper.AcquisitionError
	switch {
	case errors.As(err, &acqErr):
		return apierror.BadGateway("failed to acquire data for profile " + acqErr.ProfileID)
	case errors.Is(err, repository.ErrNotFound):
		return apierror.NotFound("profile not found")
	case errors.Is(err, repository.ErrDuplicateID):
		return apierror.Conflict("profile already exists")
	case errors.Is(err, summary.ErrDisabled):
		return apierror.ServiceUnavailable("summary generation is not configured")
	default:
		return apierror.InternalError("")
	}
}
