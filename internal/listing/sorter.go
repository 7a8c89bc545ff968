// Package listing orders the aggregated posts and cuts them into pages.
package listing

import (
	"fmt"
	"slices"
	"strings"

	"github.com/WordPressNewsAggregator/internal/domain"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type SortKey string

const (
	SortByDate  SortKey = "date"
	SortByTitle SortKey = "title"
)

type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// ParseSortKey accepts "date" or "title", case-insensitively.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SortByDate, SortByTitle:
		return k, nil
	default:
		return "", fmt.Errorf("unknown sort key %q", s)
	}
}

// ParseDirection accepts "asc" or "desc", case-insensitively.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(s))); d {
	case Ascending, Descending:
		return d, nil
	default:
		return "", fmt.Errorf("unknown sort direction %q", s)
	}
}

// Sort orders posts in place by key and direction.
//
// Titles are compared with a case-insensitive collation. Posts without a
// parseable date sort after all dated posts in both directions.
func Sort(posts []domain.Post, key SortKey, dir Direction) {
	switch key {
	case SortByTitle:
		// Collators keep internal buffers and are not safe to share.
		c := collate.New(language.Und, collate.IgnoreCase)
		slices.SortStableFunc(posts, func(a, b domain.Post) int {
			return directed(c.CompareString(a.Title, b.Title), dir)
		})
	default:
		slices.SortStableFunc(posts, func(a, b domain.Post) int {
			return compareDates(&a, &b, dir)
		})
	}
}

func compareDates(a, b *domain.Post, dir Direction) int {
	switch {
	case !a.HasDate() && !b.HasDate():
		return 0
	case !a.HasDate():
		return 1
	case !b.HasDate():
		return -1
	}
	return directed(a.PublishedAt.Compare(b.PublishedAt), dir)
}

func directed(cmp int, dir Direction) int {
	if dir == Descending {
		return -cmp
	}
	return cmp
}
