// Package listview holds the working set of entity records for one console
// view and derives the visible page from it: conjunction filtering, descending
// sequence-number ordering and clamped pagination, all in memory.
package listview

import (
	"errors"
	"sort"
	"strings"
	"time"
)

// All is the filter sentinel that matches every record.
const All = "ALL"

// ErrNoResults reports that the active filter set matched nothing. Views
// render an explicit empty-state from it instead of a blank page.
var ErrNoResults = errors.New("listview: no matching records")

// PageSizes is the closed set of allowed page sizes.
var PageSizes = []int{5, 10, 25, 50}

const defaultPageSize = 10

// Page is one visible slice of the filtered, sorted working set.
type Page[T any] struct {
	Items      []T
	Index      int
	Size       int
	TotalRows  int
	TotalPages int
}

// View is the list cache for one entity kind. Field getters are fixed at
// construction; predicate values, the search query and the page cursor are
// mutable view state.
type View[T any] struct {
	seqOf        func(T) int64
	registeredAt func(T) time.Time
	fields       map[string]func(T) string
	searchFields []func(T) string

	src       []T
	filters   map[string]string
	dateFrom  *time.Time
	dateTo    *time.Time
	search    string
	pageIndex int
	pageSize  int
}

// New creates a view ordered descending by seqOf. fields maps filter names to
// their record accessors; searchFields are matched by case-insensitive
// substring against the free-text query.
func New[T any](seqOf func(T) int64, fields map[string]func(T) string, searchFields ...func(T) string) *View[T] {
	return &View[T]{
		seqOf:        seqOf,
		fields:       fields,
		searchFields: searchFields,
		filters:      make(map[string]string),
		pageSize:     defaultPageSize,
	}
}

// WithRegisteredAt installs a registration-date accessor used as the secondary
// sort key when sequence numbers tie.
func (v *View[T]) WithRegisteredAt(f func(T) time.Time) *View[T] {
	v.registeredAt = f
	return v
}

// SetSource replaces the cached working set wholesale. The page cursor is
// kept; Visible clamps it against the new row count.
func (v *View[T]) SetSource(records []T) {
	v.src = records
}

// Source returns the raw cached records.
func (v *View[T]) Source() []T {
	return v.src
}

// SetFilter sets one exact-match predicate. The All sentinel disables it.
// Changing any predicate resets the page cursor to 0.
func (v *View[T]) SetFilter(field, value string) {
	if value == All || value == "" {
		delete(v.filters, field)
	} else {
		v.filters[field] = value
	}
	v.pageIndex = 0
}

// SetDateRange bounds records by registration date, inclusive. Nil bounds are
// open. Resets the page cursor.
func (v *View[T]) SetDateRange(from, to *time.Time) {
	v.dateFrom, v.dateTo = from, to
	v.pageIndex = 0
}

// SetSearch sets the free-text query matched case-insensitively against the
// search fields. Resets the page cursor.
func (v *View[T]) SetSearch(query string) {
	v.search = strings.TrimSpace(query)
	v.pageIndex = 0
}

// SetPageSize switches the page size. Sizes outside PageSizes are rejected.
// Resets the page cursor.
func (v *View[T]) SetPageSize(size int) error {
	ok := false
	for _, s := range PageSizes {
		if s == size {
			ok = true
			break
		}
	}
	if !ok {
		return errors.New("listview: page size must be one of 5, 10, 25, 50")
	}
	v.pageSize = size
	v.pageIndex = 0
	return nil
}

// SetPage moves the page cursor. Out-of-range indexes are clamped at read
// time, not here, so a snapshot refresh cannot strand the cursor.
func (v *View[T]) SetPage(index int) {
	if index < 0 {
		index = 0
	}
	v.pageIndex = index
}

// Filtered returns the filtered, sorted sequence without pagination. Export
// consumes this. The cached source is never reordered.
func (v *View[T]) Filtered() []T {
	out := make([]T, 0, len(v.src))
	for _, rec := range v.src {
		if v.matches(rec) {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		si, sj := v.seqOf(out[i]), v.seqOf(out[j])
		if si != sj {
			return si > sj
		}
		if v.registeredAt != nil {
			return v.registeredAt(out[i]).After(v.registeredAt(out[j]))
		}
		return false
	})
	return out
}

// Visible derives the current page. An empty filtered set yields ErrNoResults.
func (v *View[T]) Visible() (*Page[T], error) {
	filtered := v.Filtered()
	total := len(filtered)
	if total == 0 {
		return nil, ErrNoResults
	}

	totalPages := (total + v.pageSize - 1) / v.pageSize
	index := v.pageIndex
	if index > totalPages-1 {
		index = totalPages - 1
	}

	start := index * v.pageSize
	end := start + v.pageSize
	if end > total {
		end = total
	}

	return &Page[T]{
		Items:      filtered[start:end],
		Index:      index,
		Size:       v.pageSize,
		TotalRows:  total,
		TotalPages: totalPages,
	}, nil
}

func (v *View[T]) matches(rec T) bool {
	for field, want := range v.filters {
		getter, ok := v.fields[field]
		if !ok || getter(rec) != want {
			return false
		}
	}
	if v.registeredAt != nil && (v.dateFrom != nil || v.dateTo != nil) {
		at := v.registeredAt(rec)
		if v.dateFrom != nil && at.Before(*v.dateFrom) {
			return false
		}
		if v.dateTo != nil && at.After(*v.dateTo) {
			return false
		}
	}
	if v.search != "" {
		q := strings.ToLower(v.search)
		hit := false
		for _, getter := range v.searchFields {
			if strings.Contains(strings.ToLower(getter(rec)), q) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}
