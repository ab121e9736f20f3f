package bastion

import (
	"net/url"
	"strconv"
)

// QueryParams represents the query options collection endpoints accept.
type QueryParams struct {
	// Page is the zero-based page number.
	Page int
	// PageSize caps results per page.
	PageSize int
	// Sort orders results, e.g. "name" or "-lastUpdated".
	Sort string
	// Search is the platform's free-text query ("q").
	Search string
	// Filters are forwarded verbatim as query parameters.
	Filters map[string]string
}

// NewQueryParams creates empty query parameters.
func NewQueryParams() *QueryParams {
	return &QueryParams{
		Filters: make(map[string]string),
	}
}

// WithFilter adds a filter criterion.
func (q *QueryParams) WithFilter(key, value string) *QueryParams {
	if q.Filters == nil {
		q.Filters = make(map[string]string)
	}

	q.Filters[key] = value

	return q
}

// WithPageSize sets the page size.
func (q *QueryParams) WithPageSize(size int) *QueryParams {
	q.PageSize = size

	return q
}

// WithSort sets the sort order.
func (q *QueryParams) WithSort(sort string) *QueryParams {
	q.Sort = sort

	return q
}

// WithSearch sets the free-text query.
func (q *QueryParams) WithSearch(search string) *QueryParams {
	q.Search = search

	return q
}

// ToValues converts the parameters to url.Values.
func (q *QueryParams) ToValues() url.Values {
	values := url.Values{}

	if q.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page))
	}

	if q.PageSize > 0 {
		values.Set("pageSize", strconv.Itoa(q.PageSize))
	}

	if q.Sort != "" {
		values.Set("sort", q.Sort)
	}

	if q.Search != "" {
		values.Set("q", q.Search)
	}

	for key, value := range q.Filters {
		values.Set(key, value)
	}

	return values
}
