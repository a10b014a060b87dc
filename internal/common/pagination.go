package common

import (
	"net/http"
	"strconv"
)

// MaxPerPage caps the page size accepted from clients.
const MaxPerPage = 100

// Pagination holds pagination metadata for list responses.
type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalItems int `json:"total_items"`
}

// ParsePagination extracts page and per-page parameters from query values.
func ParsePagination(r *http.Request, defaultPerPage int) (page, perPage int) {
	page = 1
	perPage = defaultPerPage
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 {
		perPage = l
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return
}

// Bounds returns the half-open slice range [start, end) covering the page
// within total items.
func (p Pagination) Bounds() (start, end int) {
	if p.PerPage <= 0 || p.Page <= 0 {
		return 0, 0
	}
	start = (p.Page - 1) * p.PerPage
	if start > p.TotalItems {
		start = p.TotalItems
	}
	end = start + p.PerPage
	if end > p.TotalItems {
		end = p.TotalItems
	}
	return start, end
}
