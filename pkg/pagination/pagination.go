package pagination

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// DefaultPageSize is the catalog grid size.
	DefaultPageSize = 12
	// MaxPage caps page numbers accepted from clients.
	MaxPage = 10000
)

// Params holds page-number pagination inputs from controllers or services.
type Params struct {
	Page     int
	PageSize int
}

// Normalize applies defaults: page >= 1 and the default page size.
func (p Params) Normalize() Params {
	p.Page = NormalizePage(p.Page)
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	return p
}

// NormalizePage clamps page numbers to [1, MaxPage].
func NormalizePage(page int) int {
	if page < 1 {
		return 1
	}
	if page > MaxPage {
		return MaxPage
	}
	return page
}

// ParsePage reads a page query value. Empty means page 1.
func ParsePage(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 0, fmt.Errorf("invalid page %q", raw)
	}
	return NormalizePage(page), nil
}

// Links returns the neighbouring page numbers for a result set of total items.
// A nil pointer means there is no such page.
func Links(total, page, pageSize int) (next, previous *int) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if page > 1 {
		prev := page - 1
		previous = &prev
	}
	if page*pageSize < total {
		n := page + 1
		next = &n
	}
	return next, previous
}

// TotalPages is the number of pages needed for total items.
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if total <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}
