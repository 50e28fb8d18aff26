package entity

import "strconv"

// Paging defaults
const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

// PageRequest is a validated 1-based page window
type PageRequest struct {
	Page     int
	PageSize int
}

// NewPageRequest parses raw page parameters. Absent, non-numeric or
// non-positive values fall back to the defaults, and pageSize is capped at maxPageSize.
func NewPageRequest(page, pageSize string, maxPageSize int) PageRequest {
	req := PageRequest{
		Page:     parsePositive(page, DefaultPage),
		PageSize: parsePositive(pageSize, DefaultPageSize),
	}
	if maxPageSize > 0 && req.PageSize > maxPageSize {
		req.PageSize = maxPageSize
	}
	return req
}

func parsePositive(raw string, fallback int) int {
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return fallback
	}
	return v
}

// Offset returns the number of items preceding the page
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Pagination describes where a page sits in the full result set
type Pagination struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
	ItemsPerPage int   `json:"itemsPerPage"`
	HasNextPage  bool  `json:"hasNextPage"`
	HasPrevPage  bool  `json:"hasPrevPage"`
}

// NewPagination computes the page metadata for totalItems results
func NewPagination(req PageRequest, totalItems int64) Pagination {
	totalPages := 0
	if req.PageSize > 0 {
		totalPages = int((totalItems + int64(req.PageSize) - 1) / int64(req.PageSize))
	}

	return Pagination{
		CurrentPage:  req.Page,
		TotalPages:   totalPages,
		TotalItems:   totalItems,
		ItemsPerPage: req.PageSize,
		HasNextPage:  req.Page < totalPages,
		HasPrevPage:  req.Page > 1,
	}
}
