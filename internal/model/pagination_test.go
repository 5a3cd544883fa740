package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageCount(t *testing.T) {
	tests := []struct {
		name  string
		total int64
		limit int
		want  int
	}{
		{"zero total yields zero pages", 0, 10, 0},
		{"exact multiple", 30, 10, 3},
		{"partial last page", 31, 10, 4},
		{"single record", 1, 10, 1},
		{"limit one", 5, 1, 5},
		{"total below limit", 7, 15, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PageCount(tt.total, tt.limit))
		})
	}
}

func TestNewPagedResult(t *testing.T) {
	res := NewPagedResult([]string{"a", "b"}, 12, 2, 5)
	assert.Equal(t, int64(12), res.Total)
	assert.Equal(t, 2, res.Page)
	assert.Equal(t, 5, res.Limit)
	assert.Equal(t, 3, res.Pages)
	assert.Len(t, res.Data, 2)
}

func TestNewPagedResultNilData(t *testing.T) {
	res := NewPagedResult[string](nil, 0, 1, 10)
	assert.NotNil(t, res.Data)
	assert.Empty(t, res.Data)
	assert.Equal(t, 0, res.Pages)
}

func TestSearchFiltersSkip(t *testing.T) {
	f := SearchFilters{Page: 3, Limit: 10}
	assert.Equal(t, 20, f.Skip())

	f = SearchFilters{Page: 1, Limit: 25}
	assert.Equal(t, 0, f.Skip())
}
