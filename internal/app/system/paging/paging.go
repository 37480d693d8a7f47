// internal/app/system/paging/paging.go

// Package paging parses the page/limit query parameters shared by every
// list endpoint and computes the offsets passed to the stores.
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// DefaultLimit is the page size used when the client does not ask for
// one. MaxLimit caps what a client may ask for.
const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// Page is a parsed pagination request.
type Page struct {
	Number int   // 1-based page number
	Limit  int64 // rows per page
	Skip   int64 // rows to skip
}

// Parse reads "page" and "limit" from the request query. Absent or
// invalid values fall back to page 1 and DefaultLimit; limits above
// MaxLimit are clamped.
func Parse(r *http.Request) Page {
	page := intParam(r, "page", 1)
	if page < 1 {
		page = 1
	}
	limit := intParam(r, "limit", DefaultLimit)
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Page{
		Number: page,
		Limit:  int64(limit),
		Skip:   int64(page-1) * int64(limit),
	}
}

// Meta is the pagination block list responses carry alongside rows.
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// Meta computes the response block for a total row count.
func (p Page) Meta(total int64) Meta {
	pages := int((total + p.Limit - 1) / p.Limit)
	if pages < 1 {
		pages = 1
	}
	return Meta{
		Page:       p.Number,
		Limit:      int(p.Limit),
		Total:      total,
		TotalPages: pages,
	}
}

func intParam(r *http.Request, name string, fallback int) int {
	s := query.Get(r, name)
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
