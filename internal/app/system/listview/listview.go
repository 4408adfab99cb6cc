// Package listview implements the pure filter/sort contract used by the
// admin dashboard and exposed to API consumers that assemble in-memory rows.
//
// FilterAndSort never mutates its input: it is re-run from scratch whenever
// the source rows, the search term, or the sort key change, and callers may
// keep the previous result on failure.
package listview

import (
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortKey selects the ordering of a filtered list.
type SortKey string

const (
	SortRecent       SortKey = "recent"        // date descending
	SortOldest       SortKey = "oldest"        // date ascending
	SortNameAsc      SortKey = "name-asc"      // locale-aware name ascending
	SortNameDesc     SortKey = "name-desc"     // locale-aware name descending
	SortBookingsDesc SortKey = "bookings-desc" // numeric descending
)

// newCollator builds the comparer for name sorts. Collation is locale-aware
// and case-insensitive, so "de la Cruz" sorts where a human expects it.
// Collators carry internal iterator state and are not safe for concurrent
// use, so each sort gets its own.
func newCollator() *collate.Collator {
	return collate.New(language.English, collate.IgnoreCase)
}

// Accessors adapts a row type to the filter/sort contract. SearchFields
// returns the searchable fields for the type (e.g. first name, last name,
// email, phone for customers); the remaining accessors feed the sort keys.
// Any accessor left nil makes its sort keys a no-op for that type.
type Accessors[T any] struct {
	SearchFields func(T) []string
	Name         func(T) string
	Date         func(T) time.Time
	Bookings     func(T) int64
}

// FilterAndSort returns a new slice holding the rows whose searchable
// fields contain term (case- and diacritic-insensitive substring; an empty
// term matches everything), ordered by key. All sorts are stable: rows that
// compare equal keep their prior relative order. The input slice is never
// modified.
func FilterAndSort[T any](items []T, term string, key SortKey, a Accessors[T]) []T {
	out := filter(items, term, a)
	sortRows(out, key, a)
	return out
}

func filter[T any](items []T, term string, a Accessors[T]) []T {
	term = text.Fold(strings.TrimSpace(term))
	if term == "" || a.SearchFields == nil {
		return slices.Clone(items)
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		for _, f := range a.SearchFields(it) {
			if strings.Contains(text.Fold(f), term) {
				out = append(out, it)
				break
			}
		}
	}
	return out
}

func sortRows[T any](rows []T, key SortKey, a Accessors[T]) {
	switch key {
	case SortRecent:
		if a.Date == nil {
			return
		}
		sort.SliceStable(rows, func(i, j int) bool {
			return a.Date(rows[i]).After(a.Date(rows[j]))
		})
	case SortOldest:
		if a.Date == nil {
			return
		}
		sort.SliceStable(rows, func(i, j int) bool {
			return a.Date(rows[i]).Before(a.Date(rows[j]))
		})
	case SortNameAsc:
		if a.Name == nil {
			return
		}
		c := newCollator()
		sort.SliceStable(rows, func(i, j int) bool {
			return c.CompareString(a.Name(rows[i]), a.Name(rows[j])) < 0
		})
	case SortNameDesc:
		if a.Name == nil {
			return
		}
		c := newCollator()
		sort.SliceStable(rows, func(i, j int) bool {
			return c.CompareString(a.Name(rows[i]), a.Name(rows[j])) > 0
		})
	case SortBookingsDesc:
		if a.Bookings == nil {
			return
		}
		sort.SliceStable(rows, func(i, j int) bool {
			return a.Bookings(rows[i]) > a.Bookings(rows[j])
		})
	}
	// Unknown keys leave the filtered order untouched.
}
