package listing

import (
	"errors"
	"slices"

	"github.com/WordPressNewsAggregator/internal/domain"
)

// WindowRadius is how many page numbers are shown on each side of the current page.
const WindowRadius = 2

var ErrPageOutOfRange = errors.New("page out of range")

type ItemKind string

const (
	ItemPage     ItemKind = "page"
	ItemEllipsis ItemKind = "ellipsis"
)

// PageItem is one entry of the page-number control.
type PageItem struct {
	Kind    ItemKind `json:"kind"`
	Number  int      `json:"number,omitempty"`
	Current bool     `json:"current,omitempty"`
}

// Pagination describes the pagination controls for one rendered page.
type Pagination struct {
	CurrentPage int        `json:"current_page"`
	TotalPages  int        `json:"total_pages"`
	PageSize    int        `json:"page_size"`
	TotalItems  int        `json:"total_items"`
	HasPrev     bool       `json:"has_prev"`
	HasNext     bool       `json:"has_next"`
	Items       []PageItem `json:"items"`
}

// TotalPages returns ceil(n/size), never less than 1.
func TotalPages(n, size int) int {
	if size <= 0 || n <= 0 {
		return 1
	}
	return (n + size - 1) / size
}

// ValidPage reports whether page is within [1, TotalPages(n, size)].
func ValidPage(page, n, size int) bool {
	return page >= 1 && page <= TotalPages(n, size)
}

// Paginate returns a copy of the posts on page and the matching controls.
func Paginate(posts []domain.Post, page, size int) ([]domain.Post, Pagination, error) {
	if size <= 0 {
		return nil, Pagination{}, errors.New("page size must be positive")
	}
	if !ValidPage(page, len(posts), size) {
		return nil, Pagination{}, ErrPageOutOfRange
	}

	start := (page - 1) * size
	end := min(start+size, len(posts))
	total := TotalPages(len(posts), size)

	return slices.Clone(posts[start:end]), Pagination{
		CurrentPage: page,
		TotalPages:  total,
		PageSize:    size,
		TotalItems:  len(posts),
		HasPrev:     page > 1,
		HasNext:     page < total,
		Items:       Window(page, total),
	}, nil
}

// Window builds the page-number control: the first and last page, the
// pages within WindowRadius of current, and an ellipsis wherever pages
// between them are hidden.
func Window(current, total int) []PageItem {
	if total < 1 {
		total = 1
	}
	page := func(n int) PageItem {
		return PageItem{Kind: ItemPage, Number: n, Current: n == current}
	}

	items := []PageItem{page(1)}
	lo := max(2, current-WindowRadius)
	hi := min(total-1, current+WindowRadius)

	if lo > 2 {
		items = append(items, PageItem{Kind: ItemEllipsis})
	}
	for n := lo; n <= hi; n++ {
		items = append(items, page(n))
	}
	if hi < total-1 {
		items = append(items, PageItem{Kind: ItemEllipsis})
	}
	if total > 1 {
		items = append(items, page(total))
	}
	return items
}
