package table

import (
	"strconv"

	"kiosk-admin-console/internal/model"
	"kiosk-admin-console/internal/query"
)

// EmptyMessage is shown in the single row of an empty result.
const EmptyMessage = "Không có kết quả."

// Header is one visible header cell.
type Header struct {
	ID       string
	Label    string
	Sortable bool
	// Direction is "asc", "desc" or "".
	Direction string
	// NextURL is the list URL after clicking the header.
	NextURL string
	// NextSort is the query state of that click.
	NextSort query.Sort
}

// Row is one body row. Exactly one of Skeleton, Empty or Cells applies.
type Row struct {
	ID       string
	Cells    []Cell
	Skeleton bool
	Empty    bool
}

// ColumnOption is one entry of the column visibility menu.
type ColumnOption struct {
	ID      string
	Label   string
	Visible bool
}

// SizeOption is one entry of the page-size selector.
type SizeOption struct {
	Size     int
	URL      string
	Selected bool
}

// Pagination summarizes the current page.
type Pagination struct {
	Page       int
	TotalPages int
	Total      int
	Size       int
	HasPrev    bool
	HasNext    bool
	PrevURL    string
	NextURL    string
	Sizes      []SizeOption
}

// Grid is the renderable form of one list page.
type Grid struct {
	Headers      []Header
	Rows         []Row
	Columns      []ColumnOption
	Loading      bool
	Colspan      int
	EmptyMessage string
	Pagination   Pagination
	// VisibleCount and TotalCount feed the "Cột n/m" button.
	VisibleCount int
	TotalCount   int
}

// Options carries the context a grid is built in.
type Options[T any] struct {
	BasePath   string
	State      *query.State
	Visibility Visibility
	RowID      func(T) string
}

// Build renders page with cols. A nil page renders the loading state:
// one skeleton row per row of the current page size.
func Build[T any](cols []Column[T], page *model.PagingResponse[T], opts Options[T]) Grid {
	state := opts.State
	visible := make([]Column[T], 0, len(cols))
	g := Grid{TotalCount: len(cols), EmptyMessage: EmptyMessage}

	for _, c := range cols {
		hidden := c.Hideable && opts.Visibility.IsHidden(c.ID)
		if c.Hideable {
			g.Columns = append(g.Columns, ColumnOption{ID: c.ID, Label: c.Header, Visible: !hidden})
		}
		if hidden {
			continue
		}
		visible = append(visible, c)
		g.Headers = append(g.Headers, header(c, state, opts))
	}
	g.VisibleCount = len(visible)
	g.Colspan = len(visible)

	switch {
	case page == nil:
		g.Loading = true
		for i := 0; i < state.PageSize(); i++ {
			g.Rows = append(g.Rows, Row{Skeleton: true, Cells: make([]Cell, len(visible))})
		}
	case len(page.Items) == 0:
		g.Rows = []Row{{Empty: true}}
	default:
		for i, item := range page.Items {
			row := Row{ID: strconv.Itoa(i), Cells: make([]Cell, 0, len(visible))}
			if opts.RowID != nil {
				row.ID = opts.RowID(item)
			}
			for _, c := range visible {
				row.Cells = append(row.Cells, c.cell(item))
			}
			g.Rows = append(g.Rows, row)
		}
	}

	g.Pagination = pagination(page, state, opts.BasePath)
	return g
}

func header[T any](c Column[T], state *query.State, opts Options[T]) Header {
	h := Header{ID: c.ID, Label: c.Header, Sortable: c.Sortable}
	if !c.Sortable {
		return h
	}
	if state.Sort().Column == c.ID {
		h.Direction = state.Sort().Direction()
	}
	next := state.Clone()
	next.ToggleSort(c.ID)
	h.NextSort = next.Sort()
	h.NextURL = link(opts.BasePath, next)
	return h
}

func pagination[T any](page *model.PagingResponse[T], state *query.State, base string) Pagination {
	p := Pagination{Page: state.Page(), Size: state.PageSize(), TotalPages: 1}
	if page != nil {
		p.Total = page.Total
		if page.TotalPages > 0 {
			p.TotalPages = page.TotalPages
		}
	}
	p.HasPrev = p.Page > 1
	p.HasNext = p.Page < p.TotalPages
	if p.HasPrev {
		prev := state.Clone()
		prev.SetPage(p.Page - 1)
		p.PrevURL = link(base, prev)
	}
	if p.HasNext {
		next := state.Clone()
		next.SetPage(p.Page + 1)
		p.NextURL = link(base, next)
	}

	sizes := state.Defaults().PageSizeOptions
	if len(sizes) == 0 {
		sizes = []int{state.PageSize()}
	}
	for _, n := range sizes {
		s := state.Clone()
		s.SetPageSize(n)
		s.SetPage(1)
		p.Sizes = append(p.Sizes, SizeOption{Size: n, URL: link(base, s), Selected: n == state.PageSize()})
	}
	return p
}

func link(base string, s *query.State) string {
	if q := s.Encode(); q != "" {
		return base + "?" + q
	}
	return base
}
