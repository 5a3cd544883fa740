package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"pageinsights-api/internal/model"
)

// Gateway exposes typed cache operations over the Cache boundary using the
// key scheme in keys.go. The cache is strictly an optimization: every
// transport-level error is swallowed and reported as a miss (reads) or a
// failed write (writes), so an unavailable cache degrades the service to
// store-only operation instead of failing requests.
type Gateway struct {
	cache Cache
	ttl   time.Duration
	log   *zap.Logger
}

// NewGateway creates a cache gateway with the given default TTL.
func NewGateway(c Cache, ttl time.Duration, log *zap.Logger) *Gateway {
	return &Gateway{cache: c, ttl: ttl, log: log}
}

// get unmarshals the payload under key into out, reporting hit/miss.
func (g *Gateway) get(ctx context.Context, key string, out any) bool {
	data, err := g.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			g.log.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		g.log.Warn("cache payload corrupt", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// set marshals value and stores it under key with the default TTL.
func (g *Gateway) set(ctx context.Context, key string, value any) bool {
	data, err := json.Marshal(value)
	if err != nil {
		g.log.Warn("cache marshal failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if err := g.cache.Set(ctx, key, data, g.ttl); err != nil {
		g.log.Warn("cache set failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// GetProfile returns a cached profile, or nil on miss.
func (g *Gateway) GetProfile(ctx context.Context, profileID string) *model.Profile {
	var p model.Profile
	if !g.get(ctx, ProfileKey(profileID), &p) {
		return nil
	}
	return &p
}

// SetProfile caches a profile under its own key.
func (g *Gateway) SetProfile(ctx context.Context, p *model.Profile) bool {
	return g.set(ctx, ProfileKey(p.ProfileID), p)
}

// GetPosts returns a cached posts envelope for (profile, page, limit).
func (g *Gateway) GetPosts(ctx context.Context, profileID string, page, limit int) *model.PagedResult[model.Post] {
	var env model.PagedResult[model.Post]
	if !g.get(ctx, PostsKey(profileID, page, limit), &env) {
		return nil
	}
	return &env
}

// SetPosts caches a posts envelope for (profile, page, limit).
func (g *Gateway) SetPosts(ctx context.Context, profileID string, page, limit int, env model.PagedResult[model.Post]) bool {
	return g.set(ctx, PostsKey(profileID, page, limit), env)
}

// GetFollowers returns a cached followers envelope for (profile, page, limit).
func (g *Gateway) GetFollowers(ctx context.Context, profileID string, page, limit int) *model.PagedResult[model.Follower] {
	var env model.PagedResult[model.Follower]
	if !g.get(ctx, FollowersKey(profileID, page, limit), &env) {
		return nil
	}
	return &env
}

// SetFollowers caches a followers envelope for (profile, page, limit).
func (g *Gateway) SetFollowers(ctx context.Context, profileID string, page, limit int, env model.PagedResult[model.Follower]) bool {
	return g.set(ctx, FollowersKey(profileID, page, limit), env)
}

// GetSearch returns cached search results for the filter set.
func (g *Gateway) GetSearch(ctx context.Context, f model.SearchFilters) *model.PagedResult[model.Profile] {
	var env model.PagedResult[model.Profile]
	if !g.get(ctx, SearchKey(f), &env) {
		return nil
	}
	return &env
}

// SetSearch caches search results, including empty result sets so that
// filters matching nothing do not hit the store repeatedly.
func (g *Gateway) SetSearch(ctx context.Context, f model.SearchFilters, env model.PagedResult[model.Profile]) bool {
	return g.set(ctx, SearchKey(f), env)
}

// GetSummary returns a cached profile summary, or "" on miss.
func (g *Gateway) GetSummary(ctx context.Context, profileID string) string {
	var s string
	if !g.get(ctx, SummaryKey(profileID), &s) {
		return ""
	}
	return s
}

// SetSummary caches a generated profile summary.
func (g *Gateway) SetSummary(ctx context.Context, profileID, summary string) bool {
	return g.set(ctx, SummaryKey(profileID), summary)
}

// InvalidateProfile removes the profile entry plus every key under its
// prefix (posts pages, follower pages, summary) and returns the total
// number of entries removed.
func (g *Gateway) InvalidateProfile(ctx context.Context, profileID string) int {
	count, err := g.cache.DeletePattern(ctx, ProfilePrefixPattern(profileID))
	if err != nil {
		g.log.Warn("cache invalidation failed",
			zap.String("profile_id", profileID), zap.Error(err))
	}

	deleted, err := g.cache.Delete(ctx, ProfileKey(profileID))
	if err != nil {
		g.log.Warn("cache delete failed",
			zap.String("profile_id", profileID), zap.Error(err))
	}
	if deleted {
		count++
	}

	g.log.Info("invalidated profile cache entries",
		zap.String("profile_id", profileID), zap.Int("count", count))
	return count
}

// InvalidateSearch removes every cached search result.
func (g *Gateway) InvalidateSearch(ctx context.Context) int {
	count, err := g.cache.DeletePattern(ctx, SearchPattern)
	if err != nil {
		g.log.Warn("search cache invalidation failed", zap.Error(err))
	}

	g.log.Info("invalidated search cache entries", zap.Int("count", count))
	return count
}

// Ping reports whether the cache backend is reachable.
func (g *Gateway) Ping(ctx context.Context) error {
	return g.cache.Ping(ctx)
}
