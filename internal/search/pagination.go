package search

import (
	"fmt"
	"math"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// PageRequest is the raw page and limit a caller asked for; nil means not given.
type PageRequest struct {
	Page  *int
	Limit *int
}

// Window is the clamped page, limit and offset derived from a PageRequest.
type Window struct {
	Page  int
	Limit int
	Skip  int
}

// Meta describes where a page sits in the full result set.
type Meta struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// Result is one page of T plus its navigation metadata.
type Result[T any] struct {
	Data       []T  `json:"data"`
	Pagination Meta `json:"pagination"`
}

// Paginate clamps req: page is at least 1 and limit lies in [1, MaxLimit].
func Paginate(req PageRequest) Window {
	page := 1
	if req.Page != nil && *req.Page > 1 {
		page = *req.Page
	}
	limit := DefaultLimit
	if req.Limit != nil {
		limit = min(MaxLimit, max(1, *req.Limit))
	}
	return Window{Page: page, Limit: limit, Skip: offset(page, limit)}
}

// NewMeta derives the navigation metadata of w over total items.
func NewMeta(w Window, total int) Meta {
	if w.Limit < 1 {
		w.Limit = 1
	}
	if w.Page < 1 {
		w.Page = 1
	}
	if total < 0 {
		total = 0
	}
	totalPages := total / w.Limit
	if total%w.Limit != 0 {
		totalPages++
	}
	return Meta{
		Page:       w.Page,
		Limit:      w.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    w.Page < totalPages,
		HasPrev:    w.Page > 1,
	}
}

// Range renders the page as "start-end of total", or "0-0 of total" when the
// page holds no items.
func (m Meta) Range() string {
	limit := max(1, m.Limit)
	skip := offset(max(1, m.Page), limit)
	if skip >= m.Total {
		return fmt.Sprintf("0-0 of %d", max(0, m.Total))
	}
	end := m.Total
	if m.Total-skip > limit {
		end = skip + limit
	}
	return fmt.Sprintf("%d-%d of %d", skip+1, end, m.Total)
}

// PaginateSlice cuts the requested page out of items.
func PaginateSlice[T any](items []T, req PageRequest) Result[T] {
	w := Paginate(req)
	meta := NewMeta(w, len(items))

	start := min(w.Skip, len(items))
	end := len(items)
	if end-start > w.Limit {
		end = start + w.Limit
	}

	data := make([]T, end-start)
	copy(data, items[start:end])
	return Result[T]{Data: data, Pagination: meta}
}

// offset is (page-1)*limit, saturating instead of overflowing.
func offset(page, limit int) int {
	if page-1 > math.MaxInt/limit {
		return math.MaxInt
	}
	return (page - 1) * limit
}
