package model

// PagedResult is the pagination envelope returned by listing operations.
type PagedResult[T any] struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
	Data  []T   `json:"data"`
}

// NewPagedResult builds an envelope for the given listing slice.
// Pages is ceil(total/limit), with zero pages for an empty result set.
func NewPagedResult[T any](data []T, total int64, page, limit int) PagedResult[T] {
	if data == nil {
		data = []T{}
	}
	return PagedResult[T]{
		Total: total,
		Page:  page,
		Limit: limit,
		Pages: PageCount(total, limit),
		Data:  data,
	}
}

// PageCount computes ceil(total/limit); a zero total yields zero pages.
func PageCount(total int64, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
