// Package paging slices ordered results into fixed-size pages and computes
// the bounded window of page numbers shown by navigation controls.
package paging

import (
	"errors"
	"fmt"
)

// DefaultPageSize is the number of listings per page
const DefaultPageSize = 6

// WindowSize is the maximum number of page numbers in a window
const WindowSize = 3

var ErrPageOutOfRange = errors.New("page out of range")

// Page is one slice of a larger ordered result
type Page[T any] struct {
	Items      []T `json:"items"`
	Number     int `json:"page"`
	Size       int `json:"pageSize"`
	TotalItems int `json:"filteredCount"`
	TotalPages int `json:"totalPages"`
}

// Paginator splits results into pages of a fixed size
type Paginator struct {
	size int
}

// New creates a paginator. A non-positive size falls back to DefaultPageSize.
func New(size int) *Paginator {
	if size <= 0 {
		size = DefaultPageSize
	}
	return &Paginator{size: size}
}

// Size returns the page size
func (p *Paginator) Size() int { return p.size }

// TotalPages returns ceil(count/size), zero for an empty result
func (p *Paginator) TotalPages(count int) int {
	if count <= 0 {
		return 0
	}
	return (count + p.size - 1) / p.size
}

// Bounds returns the [start, end) indexes of page n clipped to count
func (p *Paginator) Bounds(n, count int) (start, end int) {
	if n < 1 {
		return 0, 0
	}
	// Compare pages before multiplying so huge n cannot overflow.
	if n > p.TotalPages(count) {
		return count, count
	}
	start = (n - 1) * p.size
	end = start + p.size
	if end > count {
		end = count
	}
	return start, end
}

// Paginate returns page n of items. A page past the end is empty.
func Paginate[T any](p *Paginator, items []T, n int) Page[T] {
	start, end := p.Bounds(n, len(items))
	return Page[T]{
		Items:      items[start:end:end],
		Number:     n,
		Size:       p.size,
		TotalItems: len(items),
		TotalPages: p.TotalPages(len(items)),
	}
}

// CheckPage rejects page numbers outside [1, max(totalPages, 1)]
func CheckPage(n, totalPages int) error {
	if n < 1 || n > max(totalPages, 1) {
		return fmt.Errorf("page %d of %d: %w", n, totalPages, ErrPageOutOfRange)
	}
	return nil
}

// ClampPage forces n into [1, max(totalPages, 1)]
func ClampPage(n, totalPages int) int {
	return min(max(n, 1), max(totalPages, 1))
}
