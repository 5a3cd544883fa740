package cache

import (
	"fmt"
	"strings"

	"pageinsights-api/internal/model"
)

// Key construction for each query shape. Identical inputs always produce
// identical keys, and every sub-resource key for a profile shares the
// "profile:{id}:" prefix so bulk invalidation can target it.

// ProfileKey returns the cache key for a single profile.
func ProfileKey(profileID string) string {
	return fmt.Sprintf("profile:%s", profileID)
}

// ProfilePrefixPattern returns the glob pattern matching every
// sub-resource key of a profile (posts, followers, summary).
func ProfilePrefixPattern(profileID string) string {
	return fmt.Sprintf("profile:%s:*", profileID)
}

// PostsKey returns the cache key for one page of a profile's posts.
func PostsKey(profileID string, page, limit int) string {
	return fmt.Sprintf("profile:%s:posts:p%d:l%d", profileID, page, limit)
}

// FollowersKey returns the cache key for one page of a profile's followers.
func FollowersKey(profileID string, page, limit int) string {
	return fmt.Sprintf("profile:%s:followers:p%d:l%d", profileID, page, limit)
}

// SummaryKey returns the cache key for a profile's generated summary.
func SummaryKey(profileID string) string {
	return fmt.Sprintf("profile:%s:summary", profileID)
}

// SearchPattern matches every cached search result.
const SearchPattern = "search:*"

// SearchKey returns the cache key for a search query. Omitted optional
// filters contribute nothing to the key, so filter structs that differ
// only in unset fields collide intentionally.
func SearchKey(f model.SearchFilters) string {
	parts := []string{"search"}

	if f.MinFollowers != nil {
		parts = append(parts, fmt.Sprintf("minf%d", *f.MinFollowers))
	}
	if f.MaxFollowers != nil {
		parts = append(parts, fmt.Sprintf("maxf%d", *f.MaxFollowers))
	}
	if f.Industry != "" {
		parts = append(parts, "ind"+f.Industry)
	}
	if f.Name != "" {
		parts = append(parts, "name"+f.Name)
	}

	parts = append(parts, fmt.Sprintf("p%d", f.Page), fmt.Sprintf("l%d", f.Limit))

	return strings.Join(parts, ":")
}
