// Package query holds the interactive state of a list screen: page, page
// size, sort, column filters, the applied search value and status filter.
package query

import (
	"sort"

	"kiosk-admin-console/internal/model"
)

// Sort is a single-column sort. The zero value means unsorted.
type Sort struct {
	Column string
	Desc   bool
}

// IsZero reports whether no sort is set.
func (s Sort) IsZero() bool {
	return s.Column == ""
}

// Direction returns "asc", "desc" or "" when unsorted.
func (s Sort) Direction() string {
	switch {
	case s.IsZero():
		return ""
	case s.Desc:
		return "desc"
	default:
		return "asc"
	}
}

// NextSort returns the sort after a click on column's header. A click on
// a different column sorts it ascending. A click on the sorted column
// cycles asc, desc, then none when clearable, or asc and desc otherwise.
func NextSort(cur Sort, column string, clearable bool) Sort {
	if cur.Column != column {
		return Sort{Column: column}
	}
	if !cur.Desc {
		return Sort{Column: column, Desc: true}
	}
	if clearable {
		return Sort{}
	}
	return Sort{Column: column}
}

// Defaults configures a State for one screen.
type Defaults struct {
	PageSize        int
	PageSizeOptions []int
	// SearchField is sent as filterBy along with a non-empty search.
	SearchField string
	Sort        Sort
	// Pinned columns cannot be cleared by ToggleSort.
	Pinned []string
}

func (d Defaults) allowsSize(n int) bool {
	if n <= 0 {
		return false
	}
	if len(d.PageSizeOptions) == 0 {
		return true
	}
	for _, o := range d.PageSizeOptions {
		if o == n {
			return true
		}
	}
	return false
}

func (d Defaults) clearable(column string) bool {
	for _, p := range d.Pinned {
		if p == column {
			return false
		}
	}
	return true
}

// State is the query state of one list screen. It is not safe for
// concurrent use; owners serialize access.
type State struct {
	defaults Defaults
	page     int
	size     int
	sort     Sort
	search   string
	status   string
	filters  map[string]string
	gen      uint64
}

// New returns a State at page 1 with the default size and sort.
func New(d Defaults) *State {
	if d.PageSize <= 0 {
		d.PageSize = 10
	}
	return &State{
		defaults: d,
		page:     1,
		size:     d.PageSize,
		sort:     d.Sort,
		filters:  make(map[string]string),
	}
}

func (s *State) Defaults() Defaults { return s.defaults }
func (s *State) Page() int          { return s.page }
func (s *State) PageSize() int      { return s.size }
func (s *State) Sort() Sort         { return s.sort }
func (s *State) Search() string     { return s.search }
func (s *State) Status() string     { return s.status }

// Generation increases on every effective change.
func (s *State) Generation() uint64 { return s.gen }

// Filter returns the value of a column filter.
func (s *State) Filter(column string) string { return s.filters[column] }

// Filters returns a copy of the column filters.
func (s *State) Filters() map[string]string {
	out := make(map[string]string, len(s.filters))
	for k, v := range s.filters {
		out[k] = v
	}
	return out
}

// changed resets the page and bumps the generation.
func (s *State) changed() {
	s.page = 1
	s.gen++
}

// SetPage moves to page n, clamped to at least 1.
func (s *State) SetPage(n int) bool {
	if n < 1 {
		n = 1
	}
	if n == s.page {
		return false
	}
	s.page = n
	s.gen++
	return true
}

// SetPageSize changes the page size. Sizes outside the configured options
// are ignored.
func (s *State) SetPageSize(n int) bool {
	if !s.defaults.allowsSize(n) || n == s.size {
		return false
	}
	s.size = n
	s.changed()
	return true
}

// ToggleSort applies a header click on column.
func (s *State) ToggleSort(column string) bool {
	return s.SetSort(NextSort(s.sort, column, s.defaults.clearable(column)))
}

func (s *State) SetSort(v Sort) bool {
	if v == s.sort {
		return false
	}
	s.sort = v
	s.changed()
	return true
}

// SetColumnFilter sets, or clears when value is empty, a column filter.
func (s *State) SetColumnFilter(column, value string) bool {
	if s.filters[column] == value {
		return false
	}
	if value == "" {
		delete(s.filters, column)
	} else {
		s.filters[column] = value
	}
	s.changed()
	return true
}

func (s *State) SetStatus(v string) bool {
	if v == s.status {
		return false
	}
	s.status = v
	s.changed()
	return true
}

// ApplySearch sets the search value already debounced by the caller.
func (s *State) ApplySearch(v string) bool {
	if v == s.search {
		return false
	}
	s.search = v
	s.changed()
	return true
}

// ClearFilters drops the search, status and column filters.
func (s *State) ClearFilters() bool {
	if s.search == "" && s.status == "" && len(s.filters) == 0 {
		return false
	}
	s.search = ""
	s.status = ""
	s.filters = make(map[string]string)
	s.changed()
	return true
}

// Clone returns an independent copy.
func (s *State) Clone() *State {
	c := *s
	c.filters = s.Filters()
	return &c
}

// Params composes the paging parameters sent to the backend.
func (s *State) Params() model.PagingParams {
	p := model.PagingParams{Page: s.page, Size: s.size, Status: s.status}
	if s.search != "" {
		p.FilterBy = s.defaults.SearchField
		p.FilterQuery = s.search
	}
	if !s.sort.IsZero() {
		p.SortBy = s.sort.Column
		p.IsAsc = model.Bool(!s.sort.Desc)
	}

	columns := make([]string, 0, len(s.filters))
	for k := range s.filters {
		columns = append(columns, k)
	}
	sort.Strings(columns)
	for _, column := range columns {
		applyFilter(&p, column, s.filters[column])
	}
	return p
}

// applyFilter maps a column filter onto the backend parameter of the same
// name. Any other column filters by free text when no search is applied.
func applyFilter(p *model.PagingParams, column, value string) {
	switch column {
	case "isSynced":
		p.IsSynced = parseBool(value)
	case "hasMenu":
		p.HasMenu = parseBool(value)
	case "kioskVersionId":
		p.KioskVersionID = value
	case "productId":
		p.ProductID = value
	case "type":
		p.Type = value
	case "productType":
		p.ProductType = value
	case "productSize":
		p.ProductSize = value
	case "status":
		p.Status = value
	default:
		if p.FilterQuery == "" {
			p.FilterBy = column
			p.FilterQuery = value
		}
	}
}

func parseBool(v string) *bool {
	switch v {
	case "true":
		return model.Bool(true)
	case "false":
		return model.Bool(false)
	}
	return nil
}
