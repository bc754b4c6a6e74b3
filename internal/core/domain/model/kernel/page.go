package kernel

import (
	"math"

	"parceltrack/internal/pkg/errs"
)

// Pagination defaults shared by every listing.
const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Page is a validated pagination request. Zero inputs fall back to the
// defaults; sizes above MaxPageSize are clamped.
type Page struct {
	number int
	size   int
}

// NewPage validates a pagination request.
// Returns ValueIsOutOfRangeError for negative numbers.
//
// Example:
//
// 	page, err := kernel.NewPage(2, 500)
// 	// page.Size() == kernel.MaxPageSize, page.Offset() == 100
func NewPage(number, size int) (Page, error) {
	if number < 0 {
		return Page{}, errs.NewValueIsOutOfRangeError("page", number, 1, math.MaxInt32)
	}
	if size < 0 {
		return Page{}, errs.NewValueIsOutOfRangeError("limit", size, 1, MaxPageSize)
	}
	if number == 0 {
		number = DefaultPage
	}
	if size == 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return Page{number: number, size: size}, nil
}

// DefaultFirstPage is page 1 with the default size.
func DefaultFirstPage() Page {
	return Page{number: DefaultPage, size: DefaultPageSize}
}

// Number returns the 1-based page number.
func (p Page) Number() int {
	return p.number
}

// Size returns the page size after clamping.
func (p Page) Size() int {
	return p.size
}

// Offset returns how many rows precede the page.
func (p Page) Offset() int {
	return (p.number - 1) * p.size
}

// PageMeta is the pagination block returned next to a listing.
type PageMeta struct {
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// NewPageMeta describes page within a result of total rows.
func NewPageMeta(p Page, total int64) PageMeta {
	totalPages := 0
	if p.size > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(p.size)))
	}
	return PageMeta{
		Total:      total,
		Page:       p.number,
		Limit:      p.size,
		TotalPages: totalPages,
	}
}
