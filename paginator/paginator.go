package paginator

import (
	"os"
	"strconv"
)

// DefaultPerPage is the fixed page length used by all listings unless
// PAGE_SIZE overrides it.
const DefaultPerPage = 10

// Page describes one slice of an ordered listing. It is a pure value: the
// database query derives Offset/Limit from it, nothing here touches storage.
type Page struct {
	Number      int   `json:"number"`
	PerPage     int   `json:"per_page"`
	TotalItems  int64 `json:"total_items"`
	TotalPages  int   `json:"total_pages"`
	HasNext     bool  `json:"has_next"`
	HasPrevious bool  `json:"has_previous"`
}

// PerPage returns the configured page length.
func PerPage() int {
	if raw := os.Getenv("PAGE_SIZE"); raw != "" {
		if size, err := strconv.Atoi(raw); err == nil && size > 0 {
			return size
		}
	}
	return DefaultPerPage
}

// ParsePageNumber maps the raw "page" query parameter to a 1-based page
// number. Absent or invalid input means page 1.
func ParsePageNumber(raw string) int {
	number, err := strconv.Atoi(raw)
	if err != nil || number < 1 {
		return 1
	}
	return number
}

// New computes page metadata for a listing of totalItems entries split into
// perPage-sized pages. Out-of-range requests clamp to the nearest valid page
// instead of erroring: below 1 becomes 1, past the end becomes the last page.
func New(totalItems int64, perPage, requested int) Page {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if totalItems < 0 {
		totalItems = 0
	}

	totalPages := int((totalItems + int64(perPage) - 1) / int64(perPage))
	if totalPages < 1 {
		totalPages = 1
	}

	number := requested
	if number < 1 {
		number = 1
	}
	if number > totalPages {
		number = totalPages
	}

	return Page{
		Number:      number,
		PerPage:     perPage,
		TotalItems:  totalItems,
		TotalPages:  totalPages,
		HasNext:     number < totalPages,
		HasPrevious: number > 1,
	}
}

// Offset is the number of rows to skip for this page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.PerPage
}

// Limit is the maximum number of rows on this page.
func (p Page) Limit() int {
	return p.PerPage
}
