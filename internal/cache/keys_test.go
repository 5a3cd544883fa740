package cache

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"pageinsights-api/internal/model"
)

func int64p(v int64) *int64 { return &v }

func TestProfileKeys(t *testing.T) {
	assert.Equal(t, "profile:acme", ProfileKey("acme"))
	assert.Equal(t, "profile:acme:posts:p2:l15", PostsKey("acme", 2, 15))
	assert.Equal(t, "profile:acme:followers:p1:l10", FollowersKey("acme", 1, 10))
	assert.Equal(t, "profile:acme:summary", SummaryKey("acme"))
}

func TestSubResourceKeysSharePrefix(t *testing.T) {
	prefix := "profile:acme:"
	for _, key := range []string{
		PostsKey("acme", 1, 15),
		FollowersKey("acme", 3, 10),
		SummaryKey("acme"),
	} {
		assert.True(t, strings.HasPrefix(key, prefix), "key %q must carry prefix %q", key, prefix)
	}
}

func TestSearchKey(t *testing.T) {
	full := model.SearchFilters{
		MinFollowers: int64p(1000),
		MaxFollowers: int64p(50000),
		Industry:     "Tech",
		Name:         "acme",
		Page:         2,
		Limit:        25,
	}
	assert.Equal(t, "search:minf1000:maxf50000:indTech:nameacme:p2:l25", SearchKey(full))

	bare := model.SearchFilters{Page: 1, Limit: 10}
	assert.Equal(t, "search:p1:l10", SearchKey(bare))
}

func TestSearchKeyOmitsUnsetFilters(t *testing.T) {
	a := model.SearchFilters{Industry: "Tech", Page: 1, Limit: 10}
	b := model.SearchFilters{Industry: "Tech", Name: "", Page: 1, Limit: 10}

	// Unset optional filters never appear, so these collide intentionally.
	assert.Equal(t, SearchKey(a), SearchKey(b))
	assert.NotContains(t, SearchKey(a), "name")
	assert.NotContains(t, SearchKey(a), "minf")
}

func TestSearchKeyDeterministic(t *testing.T) {
	f := model.SearchFilters{MinFollowers: int64p(500), Name: "co", Page: 4, Limit: 20}
	assert.Equal(t, SearchKey(f), SearchKey(f))
}
