package model

import "math"

const (
	// DefaultPage is used when no valid page is requested.
	DefaultPage = 1
	// DefaultLimit is used when no valid limit is requested.
	DefaultLimit = 10
	// MaxLimit bounds the page size a caller may request.
	MaxLimit = 100
	// MaxPage keeps Offset within int for every allowed limit.
	MaxPage = math.MaxInt / MaxLimit
)

// PageRequest is a normalized page position.
type PageRequest struct {
	Page  int
	Limit int
}

// NewPageRequest falls back to defaults for values below 1 and caps page
// at MaxPage and limit at MaxLimit. A capped page is past any real data and
// yields an empty page.
func NewPageRequest(page, limit int) PageRequest {
	if page < 1 {
		page = DefaultPage
	}
	if page > MaxPage {
		page = MaxPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return PageRequest{Page: page, Limit: limit}
}

// Offset returns the number of records to skip.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Pagination describes a page within the full ordered result set.
type Pagination struct {
	Page  int
	Limit int
	Total int
	Pages int
}

// NewPagination computes metadata for a page of total records.
func NewPagination(req PageRequest, total int) Pagination {
	pages := 0
	if total > 0 {
		pages = (total + req.Limit - 1) / req.Limit
	}
	return Pagination{Page: req.Page, Limit: req.Limit, Total: total, Pages: pages}
}

// UserPage is a page of active users.
type UserPage struct {
	Users      []User
	Pagination Pagination
}
