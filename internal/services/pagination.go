package services

import (
	"strings"

	"gorm.io/gorm"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ListOptions carries pagination, search, and sorting for list queries.
// SortBy must name a whitelisted column; anything else falls back to the
// caller's default ordering.
type ListOptions struct {
	Page     int
	PageSize int
	Search   string
	SortBy   string
	SortDesc bool
}

// PageResult wraps one page of results with the untruncated total.
type PageResult[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

func (o *ListOptions) normalise() {
	if o.Page <= 0 {
		o.Page = 1
	}
	if o.PageSize <= 0 {
		o.PageSize = defaultPageSize
	}
	if o.PageSize > maxPageSize {
		o.PageSize = maxPageSize
	}
	o.Search = strings.TrimSpace(o.Search)
	o.SortBy = strings.ToLower(strings.TrimSpace(o.SortBy))
}

func (o ListOptions) offset() int {
	return (o.Page - 1) * o.PageSize
}

// applySort orders the query by the requested column when it appears in
// the whitelist, falling back to defaultOrder otherwise.
func applySort(query *gorm.DB, opts ListOptions, allowed map[string]string, defaultOrder string) *gorm.DB {
	column, ok := allowed[opts.SortBy]
	if !ok {
		return query.Order(defaultOrder)
	}
	direction := "ASC"
	if opts.SortDesc {
		direction = "DESC"
	}
	return query.Order(column + " " + direction)
}

func totalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	pages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		pages++
	}
	return pages
}
