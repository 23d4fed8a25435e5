// Package listview implements the derived-list pipeline shared by every
// record list in the console: filter -> sort -> paginate. It is a pure
// recomputation over an in-memory slice; fetching is the caller's concern.
package listview

import (
	"sort"
	"strings"
)

// FilterAll is the sentinel categorical filter value that matches everything.
const FilterAll = "all"

// DefaultPageSize is the page size list views start with.
const DefaultPageSize = 10

// Params holds the view state a list derivation depends on.
type Params struct {
	Query     string            // free-text, case-insensitive substring
	Filters   map[string]string // categorical filters; FilterAll matches all
	SortField string
	SortAsc   bool
	Page      int // 1-based
	PageSize  int
}

// Result is the derived page plus the totals a view needs for its footer.
type Result[T any] struct {
	Items         []T // the page slice
	FilteredCount int
	TotalPages    int
	Page          int // clamped; 1 when there are no results
}

// Apply runs the full pipeline: filter by match, stable-sort by cmp (sign
// flipped when descending), then slice out the requested page. The source
// slice is never mutated. If the requested page falls past the end after a
// filter narrows the set, it clamps to the last valid page rather than
// returning an empty page while matches exist.
func Apply[T any](src []T, p Params, match func(T) bool, cmp func(a, b T) int) Result[T] {
	filtered := make([]T, 0, len(src))
	for _, rec := range src {
		if match == nil || match(rec) {
			filtered = append(filtered, rec)
		}
	}

	if cmp != nil {
		sort.SliceStable(filtered, func(i, j int) bool {
			c := cmp(filtered[i], filtered[j])
			if !p.SortAsc {
				c = -c
			}
			return c < 0
		})
	}

	pageSize := p.PageSize
	if pageSize <= 0 {
		pageSize = len(filtered)
		if pageSize == 0 {
			pageSize = 1
		}
	}

	totalPages := (len(filtered) + pageSize - 1) / pageSize
	page := clampPage(p.Page, totalPages)

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}

	return Result[T]{
		Items:         filtered[start:end],
		FilteredCount: len(filtered),
		TotalPages:    totalPages,
		Page:          page,
	}
}

func clampPage(page, totalPages int) int {
	if totalPages == 0 {
		return 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// MatchQuery reports whether any of the given fields contains query as a
// case-insensitive substring. An empty query matches everything.
func MatchQuery(query string, fields ...string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// MatchFilter reports whether a categorical value passes a filter. The
// sentinel FilterAll (any case) and the empty filter match everything.
func MatchFilter(filter, value string) bool {
	if filter == "" || strings.EqualFold(filter, FilterAll) {
		return true
	}
	return filter == value
}

// CompareStrings orders two strings case-insensitively, falling back to a
// byte comparison so equal-fold values still order deterministically.
func CompareStrings(a, b string) int {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la != lb {
		return strings.Compare(la, lb)
	}
	return strings.Compare(a, b)
}

// CompareBools orders false before true.
func CompareBools(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

// CompareInts orders by numeric difference.
func CompareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// SortState tracks the active sort column and direction, implementing the
// column-header click policy: selecting a new field switches to that field
// with its default direction and resets to page 1; selecting the active
// field again toggles the direction in place.
type SortState struct {
	Field string
	Asc   bool
}

// Click applies a field selection. defaultAsc is the direction a freshly
// selected field starts with (flags lists start ascending, audit lists start
// descending). It reports whether the page should reset to 1.
func (s *SortState) Click(field string, defaultAsc bool) (pageReset bool) {
	if s.Field == field {
		s.Asc = !s.Asc
		return false
	}
	s.Field = field
	s.Asc = defaultAsc
	return true
}
