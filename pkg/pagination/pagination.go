package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	// DefaultPage is the page used when none is supplied.
	DefaultPage = 1
	// DefaultLimit is the page size used when none is supplied.
	DefaultLimit = 20
	// MaxLimit caps the page size a client can request.
	MaxLimit = 100
)

// Params holds the parsed page/limit query parameters.
type Params struct {
	Page  int
	Limit int
}

// Offset returns the zero-based index of the first item on the page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Meta describes one page of a larger result set.
type Meta struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	TotalCount int  `json:"totalCount"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// ParseParams reads page and limit from the query string. Missing, malformed,
// or out-of-range values fall back to defaults rather than erroring; limit is
// capped at MaxLimit.
func ParseParams(c *gin.Context) Params {
	page := DefaultPage
	if raw := c.Query("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			page = parsed
		}
	}

	limit := DefaultLimit
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Params{Page: page, Limit: limit}
}

// BuildMeta computes page metadata for a result set of totalCount items.
func BuildMeta(page, limit, totalCount int) Meta {
	if page < 1 {
		page = 1
	}

	totalPages := 0
	if limit > 0 && totalCount > 0 {
		totalPages = (totalCount + limit - 1) / limit
	}

	return Meta{
		Page:       page,
		Limit:      limit,
		TotalCount: totalCount,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1 && totalPages > 0,
	}
}

// Slice returns the window of items belonging to the page. A page beyond the
// end yields an empty slice, not an error.
func Slice[T any](items []T, p Params) []T {
	start := p.Offset()
	if start >= len(items) || start < 0 {
		return []T{}
	}
	end := start + p.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
