package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"pageinsights-api/internal/cache"
	"pageinsights-api/internal/model"
	"pageinsights-api/internal/repository"
	"pageinsights-api/internal/scraper"
	"pageinsights-api/internal/summary"
)

// ProfileService composes the cache gateway, the repositories and the
// scraper into the three-tier lookup: cache, then store, then
// acquire-and-persist. Acquisition is single-flighted per (kind, profile)
// so concurrent misses share one scrape instead of racing each other into
// duplicate writes.
type ProfileService struct {
	profiles   repository.ProfileRepository
	posts      repository.PostRepository
	followers  repository.FollowerRepository
	scraper    scraper.Scraper
	cache      *cache.Gateway
	summarizer summary.Summarizer
	log        *zap.Logger

	flight singleflight.Group
}

// NewProfileService creates the retrieval service.
func NewProfileService(
	profiles repository.ProfileRepository,
	posts repository.PostRepository,
	followers repository.FollowerRepository,
	sc scraper.Scraper,
	gw *cache.Gateway,
	summarizer summary.Summarizer,
	log *zap.Logger,
) *ProfileService {
	return &ProfileService{
		profiles:   profiles,
		posts:      posts,
		followers:  followers,
		scraper:    sc,
		cache:      gw,
		summarizer: summarizer,
		log:        log,
	}
}

// GetProfile returns a profile, trying cache, then store, then acquisition.
// An acquisition failure here is fatal for the request: there is no local
// data to fall back to.
func (s *ProfileService) GetProfile(ctx context.Context, profileID string) (*model.Profile, error) {
	if p := s.cache.GetProfile(ctx, profileID); p != nil {
		s.log.Debug("profile cache hit", zap.String("profile_id", profileID))
		return p, nil
	}

	v, err, _ := s.flight.Do("profile:"+profileID, func() (any, error) {
		return s.loadOrAcquireProfile(ctx, profileID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.Profile), nil
}

func (s *ProfileService) loadOrAcquireProfile(ctx context.Context, profileID string) (*model.Profile, error) {
	p, err := s.profiles.GetByID(ctx, profileID)
	if err == nil {
		s.cache.SetProfile(ctx, p)
		return p, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	s.log.Info("profile not stored, acquiring", zap.String("profile_id", profileID))

	scraped, err := s.scraper.ScrapeProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}

	p, err = s.profiles.Create(ctx, scraped)
	if errors.Is(err, repository.ErrDuplicateID) {
		// Lost a race against another writer; the stored record wins.
		p, err = s.profiles.GetByID(ctx, profileID)
	}
	if err != nil {
		return nil, err
	}

	s.cache.SetProfile(ctx, p)
	return p, nil
}

// Search returns one page of profiles matching the filters. Empty results
// are valid and cached as such; search never triggers acquisition.
func (s *ProfileService) Search(ctx context.Context, f model.SearchFilters) (*model.PagedResult[model.Profile], error) {
	if env := s.cache.GetSearch(ctx, f); env != nil {
		s.log.Debug("search cache hit")
		return env, nil
	}

	profiles, total, err := s.profiles.Search(ctx, f)
	if err != nil {
		return nil, err
	}

	env := model.NewPagedResult(profiles, total, f.Page, f.Limit)
	s.cache.SetSearch(ctx, f, env)
	return &env, nil
}

// GetPosts returns one page of a profile's posts, acquiring them from the
// source the first time the profile's posts are requested.
func (s *ProfileService) GetPosts(ctx context.Context, profileID string, page, limit int) (*model.PagedResult[model.Post], error) {
	if env := s.cache.GetPosts(ctx, profileID, page, limit); env != nil {
		s.log.Debug("posts cache hit", zap.String("profile_id", profileID))
		return env, nil
	}

	skip := (page - 1) * limit
	posts, total, err := s.posts.ListByProfileID(ctx, profileID, skip, limit)
	if err != nil {
		return nil, err
	}

	if total == 0 {
		parent, err := s.GetProfile(ctx, profileID)
		if err != nil {
			return nil, err
		}

		if parent.PostsSyncedAt == nil {
			if err := s.acquirePosts(ctx, profileID, limit); err != nil {
				return nil, err
			}
			posts, total, err = s.posts.ListByProfileID(ctx, profileID, skip, limit)
			if err != nil {
				return nil, err
			}
		}
	}

	env := model.NewPagedResult(posts, total, page, limit)
	s.cache.SetPosts(ctx, profileID, page, limit, env)
	return &env, nil
}

// acquirePosts scrapes and persists a batch of posts, at most once in
// flight per profile. A scrape failure degrades to an empty batch and
// leaves the sync marker unset so a later request may retry.
func (s *ProfileService) acquirePosts(ctx context.Context, profileID string, limit int) error {
	_, err, _ := s.flight.Do("posts:"+profileID, func() (any, error) {
		parent, err := s.profiles.GetByID(ctx, profileID)
		if err != nil {
			return nil, err
		}
		if parent.PostsSyncedAt != nil {
			return nil, nil
		}

		scraped, err := s.scraper.ScrapePosts(ctx, profileID, limit)
		if err != nil {
			s.log.Warn("post acquisition failed, serving empty page",
				zap.String("profile_id", profileID), zap.Error(err))
			return nil, nil
		}

		for i := range scraped {
			if _, err := s.posts.Create(ctx, &scraped[i]); err != nil {
				if errors.Is(err, repository.ErrDuplicateID) {
					s.log.Warn("skipping duplicate post",
						zap.String("post_id", scraped[i].PostID))
					continue
				}
				return nil, err
			}
		}

		now := time.Now().UTC()
		if err := s.profiles.MarkSynced(ctx, profileID, repository.SyncPosts, now); err != nil {
			s.log.Warn("failed to mark posts synced",
				zap.String("profile_id", profileID), zap.Error(err))
			return nil, nil
		}

		// Refresh the cached profile so later requests see the marker.
		parent.PostsSyncedAt = &now
		s.cache.SetProfile(ctx, parent)

		s.log.Info("acquired posts",
			zap.String("profile_id", profileID), zap.Int("count", len(scraped)))
		return nil, nil
	})
	return err
}

// GetFollowers returns one page of a profile's followers, acquiring them
// from the source the first time the profile's followers are requested.
func (s *ProfileService) GetFollowers(ctx context.Context, profileID string, page, limit int) (*model.PagedResult[model.Follower], error) {
	if env := s.cache.GetFollowers(ctx, profileID, page, limit); env != nil {
		s.log.Debug("followers cache hit", zap.String("profile_id", profileID))
		return env, nil
	}

	skip := (page - 1) * limit
	followers, total, err := s.followers.ListByProfileID(ctx, profileID, skip, limit)
	if err != nil {
		return nil, err
	}

	if total == 0 {
		parent, err := s.GetProfile(ctx, profileID)
		if err != nil {
			return nil, err
		}

		if parent.FollowersSyncedAt == nil {
			if err := s.acquireFollowers(ctx, profileID, limit); err != nil {
				return nil, err
			}
			followers, total, err = s.followers.ListByProfileID(ctx, profileID, skip, limit)
			if err != nil {
				return nil, err
			}
		}
	}

	env := model.NewPagedResult(followers, total, page, limit)
	s.cache.SetFollowers(ctx, profileID, page, limit, env)
	return &env, nil
}

// acquireFollowers mirrors acquirePosts for the follower kind.
func (s *ProfileService) acquireFollowers(ctx context.Context, profileID string, limit int) error {
	_, err, _ := s.flight.Do("followers:"+profileID, func() (any, error) {
		parent, err := s.profiles.GetByID(ctx, profileID)
		if err != nil {
			return nil, err
		}
		if parent.FollowersSyncedAt != nil {
			return nil, nil
		}

		scraped, err := s.scraper.ScrapeFollowers(ctx, profileID, limit)
		if err != nil {
			s.log.Warn("follower acquisition failed, serving empty page",
				zap.String("profile_id", profileID), zap.Error(err))
			return nil, nil
		}

		for i := range scraped {
			if _, err := s.followers.Create(ctx, &scraped[i]); err != nil {
				if errors.Is(err, repository.ErrDuplicateID) {
					s.log.Warn("skipping duplicate follower",
						zap.String("user_id", scraped[i].UserID))
					continue
				}
				return nil, err
			}
		}

		now := time.Now().UTC()
		if err := s.profiles.MarkSynced(ctx, profileID, repository.SyncFollowers, now); err != nil {
			s.log.Warn("failed to mark followers synced",
				zap.String("profile_id", profileID), zap.Error(err))
			return nil, nil
		}

		parent.FollowersSyncedAt = &now
		s.cache.SetProfile(ctx, parent)

		s.log.Info("acquired followers",
			zap.String("profile_id", profileID), zap.Int("count", len(scraped)))
		return nil, nil
	})
	return err
}

// GetSummary returns a generated summary for a profile, cached under the
// profile's key prefix so profile invalidation drops it too.
func (s *ProfileService) GetSummary(ctx context.Context, profileID string) (string, error) {
	if text := s.cache.GetSummary(ctx, profileID); text != "" {
		return text, nil
	}

	p, err := s.GetProfile(ctx, profileID)
	if err != nil {
		return "", err
	}

	text, err := s.summarizer.SummarizeProfile(ctx, p)
	if err != nil {
		return "", err
	}

	s.cache.SetSummary(ctx, profileID, text)
	return text, nil
}
