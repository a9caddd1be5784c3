package feed

import (
	"strconv"
	"strings"
)

// DefaultPageSize is the number of posts shown per feed page.
const DefaultPageSize = 10

// Page is one contiguous slice of a feed. Fields are exported so a page can be
// stored in the home-page cache and restored as-is.
type Page[T any] struct {
	Items    []T   `json:"items"`
	Number   int   `json:"number"`
	NumPages int   `json:"num_pages"`
	Count    int64 `json:"count"`
	PerPage  int   `json:"per_page"`
}

func (p Page[T]) Len() int { return len(p.Items) }

func (p Page[T]) HasNext() bool { return p.Number < p.NumPages }

func (p Page[T]) HasPrevious() bool { return p.Number > 1 }

func (p Page[T]) HasOtherPages() bool { return p.HasNext() || p.HasPrevious() }

func (p Page[T]) NextNumber() int { return p.Number + 1 }

func (p Page[T]) PreviousNumber() int { return p.Number - 1 }

// PageRange lists every page number, for pagination controls.
func (p Page[T]) PageRange() []int {
	pages := make([]int, p.NumPages)
	for i := range pages {
		pages[i] = i + 1
	}
	return pages
}

// Offset is the zero-based index of the first item on the page.
func (p Page[T]) Offset() int {
	return (p.Number - 1) * p.PerPage
}

// NumPages returns how many pages count items fill. An empty feed still has
// one (empty) page.
func NumPages(count int64, perPage int) int {
	if count <= 0 {
		return 1
	}
	return int((count + int64(perPage) - 1) / int64(perPage))
}

// ResolvePage turns the raw "page" query value into a valid page number:
// missing or non-numeric values give the first page, anything out of range
// gives the last page.
func ResolvePage(raw string, numPages int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 1
	}
	if n < 1 || n > numPages {
		return numPages
	}
	return n
}
