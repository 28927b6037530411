// Package listview derives the visible page of an in-memory collection from
// search, facet, sort and page state. Nothing here mutates its input.
package listview

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Spec describes how to look into T.
type Spec[T any] struct {
	// SearchFields returns the strings a search query is matched against.
	SearchFields func(T) []string
	// Facets maps a facet name (e.g. "sig") to the item's value for it.
	Facets map[string]func(T) string
	// SortKeys maps a sort key (e.g. "total") to a numeric value.
	SortKeys map[string]func(T) float64
}

type Query struct {
	Search string
	// Facets with an empty value are ignored.
	Facets    map[string]string
	SortKey   string
	Direction Direction
	Page      int
	PageSize  int
}

type Result[T any] struct {
	Items []T
	// Total is the number of items after filtering.
	Total      int
	Page       int
	TotalPages int
	PageSize   int
}

func Apply[T any](items []T, spec Spec[T], q Query) Result[T] {
	filtered := Filter(items, spec, q)
	Sort(filtered, spec, q.SortKey, q.Direction)
	return Paginate(filtered, q.Page, q.PageSize)
}

// Filter returns a new slice with the items matching the query's search and
// facets. The search is matched as typed, spaces included.
func Filter[T any](items []T, spec Spec[T], q Query) []T {
	fold := cases.Fold()
	needle := fold.String(q.Search)

	out := make([]T, 0, len(items))
	for _, item := range items {
		if needle != "" && !matchesSearch(fold, spec, item, needle) {
			continue
		}
		if !matchesFacets(spec, item, q.Facets) {
			continue
		}
		out = append(out, item)
	}
	return out
}

func matchesSearch[T any](fold cases.Caser, spec Spec[T], item T, needle string) bool {
	if spec.SearchFields == nil {
		return false
	}
	for _, field := range spec.SearchFields(item) {
		if strings.Contains(fold.String(field), needle) {
			return true
		}
	}
	return false
}

func matchesFacets[T any](spec Spec[T], item T, facets map[string]string) bool {
	for name, want := range facets {
		if want == "" {
			continue
		}
		get, ok := spec.Facets[name]
		if !ok || get(item) != want {
			return false
		}
	}
	return true
}

// Sort orders items in place. Equal keys keep their relative order. An unknown
// key leaves the order untouched.
func Sort[T any](items []T, spec Spec[T], key string, dir Direction) {
	get, ok := spec.SortKeys[key]
	if !ok {
		return
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := get(items[i]), get(items[j])
		if dir == Asc {
			return a < b
		}
		return a > b
	})
}

func TotalPages(n, pageSize int) int {
	if pageSize <= 0 || n <= 0 {
		return 0
	}
	return (n + pageSize - 1) / pageSize
}

// ClampPage keeps page within [1, max(totalPages, 1)].
func ClampPage(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

func Paginate[T any](items []T, page, pageSize int) Result[T] {
	if pageSize <= 0 {
		pageSize = len(items)
		if pageSize == 0 {
			pageSize = 1
		}
	}
	totalPages := TotalPages(len(items), pageSize)
	page = ClampPage(page, totalPages)

	start := (page - 1) * pageSize
	end := min(start+pageSize, len(items))
	if start > len(items) {
		start = len(items)
	}

	return Result[T]{
		Items:      items[start:end],
		Total:      len(items),
		Page:       page,
		TotalPages: totalPages,
		PageSize:   pageSize,
	}
}
