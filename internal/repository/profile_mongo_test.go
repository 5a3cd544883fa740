package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"pageinsights-api/internal/model"
)

func int64p(v int64) *int64 { return &v }

func TestBuildSearchQueryEmpty(t *testing.T) {
	q := buildSearchQuery(model.SearchFilters{Page: 1, Limit: 10})
	assert.Empty(t, q)
}

func TestBuildSearchQueryFollowerBounds(t *testing.T) {
	q := buildSearchQuery(model.SearchFilters{
		MinFollowers: int64p(1000),
		MaxFollowers: int64p(50000),
	})
	assert.Equal(t, bson.M{
		"followers_count": bson.M{"$gte": int64(1000), "$lte": int64(50000)},
	}, q)

	q = buildSearchQuery(model.SearchFilters{MinFollowers: int64p(10000)})
	assert.Equal(t, bson.M{"followers_count": bson.M{"$gte": int64(10000)}}, q)
}

func TestBuildSearchQueryIndustryExact(t *testing.T) {
	q := buildSearchQuery(model.SearchFilters{Industry: "Tech"})
	assert.Equal(t, bson.M{"industry": "Tech"}, q)
}

func TestBuildSearchQueryNameCaseInsensitive(t *testing.T) {
	q := buildSearchQuery(model.SearchFilters{Name: "tech"})
	regex, ok := q["name"].(bson.M)["$regex"].(primitive.Regex)
	assert.True(t, ok)
	assert.Equal(t, "tech", regex.Pattern)
	assert.Equal(t, "i", regex.Options)
}

func TestBuildSearchQueryEscapesRegexMeta(t *testing.T) {
	q := buildSearchQuery(model.SearchFilters{Name: "a.b+c"})
	regex := q["name"].(bson.M)["$regex"].(primitive.Regex)
	assert.Equal(t, `a\.b\+c`, regex.Pattern)
}

func TestBuildSearchQueryCombined(t *testing.T) {
	q := buildSearchQuery(model.SearchFilters{
		MinFollowers: int64p(500),
		Industry:     "Finance",
		Name:         "corp",
	})
	assert.Len(t, q, 3)
	assert.Contains(t, q, "followers_count")
	assert.Contains(t, q, "industry")
	assert.Contains(t, q, "name")
}
