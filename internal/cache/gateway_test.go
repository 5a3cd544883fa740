package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pageinsights-api/internal/model"
)

func newTestGateway(t *testing.T) (*Gateway, *MemoryCache) {
	t.Helper()
	c := newTestMemoryCache(t)
	return NewGateway(c, time.Minute, zap.NewNop()), c
}

func TestGatewayProfileRoundTrip(t *testing.T) {
	g, _ := newTestGateway(t)
	ctx := context.Background()

	assert.Nil(t, g.GetProfile(ctx, "acme"))

	p := &model.Profile{ProfileID: "acme", Name: "Acme Co", FollowersCount: 125000}
	assert.True(t, g.SetProfile(ctx, p))

	got := g.GetProfile(ctx, "acme")
	require.NotNil(t, got)
	assert.Equal(t, "acme", got.ProfileID)
	assert.Equal(t, "Acme Co", got.Name)
	assert.Equal(t, int64(125000), got.FollowersCount)
}

func TestGatewayEnvelopeRoundTrip(t *testing.T) {
	g, _ := newTestGateway(t)
	ctx := context.Background()

	env := model.NewPagedResult([]model.Post{
		{PostID: "p1", ProfileID: "acme", Content: "hello"},
	}, 1, 1, 15)

	assert.True(t, g.SetPosts(ctx, "acme", 1, 15, env))

	got := g.GetPosts(ctx, "acme", 1, 15)
	require.NotNil(t, got)
	assert.Equal(t, int64(1), got.Total)
	assert.Equal(t, 1, got.Pages)
	require.Len(t, got.Data, 1)
	assert.Equal(t, "p1", got.Data[0].PostID)

	// Different page/limit is a distinct key.
	assert.Nil(t, g.GetPosts(ctx, "acme", 2, 15))
	assert.Nil(t, g.GetPosts(ctx, "acme", 1, 10))
}

func TestGatewaySearchCachesEmptyResults(t *testing.T) {
	g, _ := newTestGateway(t)
	ctx := context.Background()

	f := model.SearchFilters{Industry: "Nonexistent", Page: 1, Limit: 10}
	assert.Nil(t, g.GetSearch(ctx, f))

	empty := model.NewPagedResult[model.Profile](nil, 0, 1, 10)
	assert.True(t, g.SetSearch(ctx, f, empty))

	got := g.GetSearch(ctx, f)
	require.NotNil(t, got)
	assert.Equal(t, int64(0), got.Total)
	assert.Equal(t, 0, got.Pages)
	assert.Empty(t, got.Data)
}

func TestGatewayInvalidateProfile(t *testing.T) {
	g, c := newTestGateway(t)
	ctx := context.Background()

	p := &model.Profile{ProfileID: "acme", Name: "Acme Co"}
	require.True(t, g.SetProfile(ctx, p))
	require.True(t, g.SetPosts(ctx, "acme", 1, 15, model.PagedResult[model.Post]{Page: 1, Limit: 15}))
	require.True(t, g.SetPosts(ctx, "acme", 2, 15, model.PagedResult[model.Post]{Page: 2, Limit: 15}))
	require.True(t, g.SetFollowers(ctx, "acme", 1, 10, model.PagedResult[model.Follower]{Page: 1, Limit: 10}))
	require.True(t, g.SetSummary(ctx, "acme", "a company"))

	// Another profile must survive invalidation.
	require.True(t, g.SetProfile(ctx, &model.Profile{ProfileID: "other"}))

	// 4 sub-resource keys + the profile key itself.
	assert.Equal(t, 5, g.InvalidateProfile(ctx, "acme"))

	assert.Nil(t, g.GetProfile(ctx, "acme"))
	assert.Nil(t, g.GetPosts(ctx, "acme", 1, 15))
	assert.Equal(t, "", g.GetSummary(ctx, "acme"))
	assert.NotNil(t, g.GetProfile(ctx, "other"))

	// No remnants under the prefix.
	n, err := c.DeletePattern(ctx, "profile:acme:*")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestGatewayInvalidateSearch(t *testing.T) {
	g, _ := newTestGateway(t)
	ctx := context.Background()

	f1 := model.SearchFilters{Industry: "Tech", Page: 1, Limit: 10}
	f2 := model.SearchFilters{Name: "acme", Page: 1, Limit: 10}
	require.True(t, g.SetSearch(ctx, f1, model.PagedResult[model.Profile]{}))
	require.True(t, g.SetSearch(ctx, f2, model.PagedResult[model.Profile]{}))
	require.True(t, g.SetProfile(ctx, &model.Profile{ProfileID: "acme"}))

	assert.Equal(t, 2, g.InvalidateSearch(ctx))
	assert.Nil(t, g.GetSearch(ctx, f1))
	assert.NotNil(t, g.GetProfile(ctx, "acme"))
}

// failingCache simulates a cache backend with a lost connection.
type failingCache struct{}

var errDown = errors.New("connection refused")

func (failingCache) Get(context.Context, string) ([]byte, error)          { return nil, errDown }
func (failingCache) Set(context.Context, string, []byte, time.Duration) error { return errDown }
func (failingCache) Delete(context.Context, string) (bool, error)         { return false, errDown }
func (failingCache) DeletePattern(context.Context, string) (int, error)   { return 0, errDown }
func (failingCache) Exists(context.Context, string) (bool, error)         { return false, errDown }
func (failingCache) Clear(context.Context) error                          { return errDown }
func (failingCache) Ping(context.Context) error                           { return errDown }

func TestGatewaySwallowsTransportErrors(t *testing.T) {
	g := NewGateway(failingCache{}, time.Minute, zap.NewNop())
	ctx := context.Background()

	// Reads degrade to misses, writes to reported failure, invalidation to zero.
	assert.Nil(t, g.GetProfile(ctx, "acme"))
	assert.Nil(t, g.GetSearch(ctx, model.SearchFilters{Page: 1, Limit: 10}))
	assert.False(t, g.SetProfile(ctx, &model.Profile{ProfileID: "acme"}))
	assert.Equal(t, 0, g.InvalidateProfile(ctx, "acme"))
	assert.Equal(t, 0, g.InvalidateSearch(ctx))
}
