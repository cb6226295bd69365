// Package resource describes the console's list screens: what they fetch,
// how their columns render, and which dialogs they offer.
package resource

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"kiosk-admin-console/internal/cache"
	"kiosk-admin-console/internal/model"
	"kiosk-admin-console/internal/query"
	"kiosk-admin-console/internal/table"
)

// Filter is a select-style column filter shown above the table.
type Filter struct {
	Column  string
	Label   string
	Options model.Enum
}

// Info is the static description of a screen.
type Info struct {
	Name  string
	Title string
	// Noun names one record in messages, e.g. "tổ chức".
	Noun              string
	SearchField       string
	SearchPlaceholder string
	Statuses          model.Enum
	Filters           []Filter
	DefaultSort       query.Sort
	// Pinned sort columns cycle asc/desc only.
	Pinned []string
	// Revalidates lists other endpoints whose pages embed this resource.
	Revalidates []string

	Creatable bool
	Editable  bool
	Deletable bool
	// Viewable is set by List.WithDetail.
	Viewable bool
	// CreateURL overrides the default /ui/<name>/new.
	CreateURL string
}

// BasePath is the list page URL.
func (i Info) BasePath() string { return "/ui/" + i.Name }

func (i Info) NewURL() string {
	if i.CreateURL != "" {
		return i.CreateURL
	}
	return i.BasePath() + "/new"
}

func (i Info) DetailURL(id string) string { return i.BasePath() + "/" + url.PathEscape(id) }
func (i Info) EditURL(id string) string   { return i.DetailURL(id) + "/edit" }
func (i Info) DeleteURL(id string) string { return i.DetailURL(id) + "/delete" }

// Result is one fetched page. Its zero value renders the loading state.
type Result struct {
	page  any
	total int
}

// Total is the backend's total record count.
func (r Result) Total() int { return r.total }

// Loaded reports whether r holds a page.
func (r Result) Loaded() bool { return r.page != nil }

// Page is the fetched *model.PagingResponse, or nil.
func (r Result) Page() any { return r.page }

// Screen is one list screen. Implementations are safe for concurrent use.
type Screen interface {
	Info() Info
	Defaults() query.Defaults
	// Fetch loads the page described by st.
	Fetch(ctx context.Context, st *query.State) (Result, error)
	// Build renders res. A zero Result renders skeleton rows.
	Build(res Result, st *query.State, vis table.Visibility) table.Grid
}

// ErrNoDetail is returned by screens whose records have no detail view.
var ErrNoDetail = errors.New("resource: no detail view")

// Detail is one record shown read-only.
type Detail struct {
	ID     string
	Fields []table.Field
}

// Detailer is a Screen whose records can be shown one at a time.
type Detailer interface {
	Detail(ctx context.Context, id string) (Detail, error)
}

// Source loads one page of T.
type Source[T any] func(ctx context.Context, params model.PagingParams) (*model.PagingResponse[T], error)

// List is the Screen over records of type T.
type List[T any] struct {
	info     Info
	defaults query.Defaults
	base     []table.Column[T]
	columns  []table.Column[T]
	rowID    func(T) string
	source   Source[T]
	lookup   func(ctx context.Context, id string) (*T, error)
	cache    *cache.Cache
}

// NewList builds a screen. When c is nil pages are fetched on every call.
func NewList[T any](info Info, d query.Defaults, cols []table.Column[T], rowID func(T) string, src Source[T], c *cache.Cache) *List[T] {
	d.SearchField = info.SearchField
	d.Sort = info.DefaultSort
	d.Pinned = info.Pinned
	l := &List[T]{info: info, defaults: d, base: cols, rowID: rowID, source: src, cache: c}
	l.columns = append(append([]table.Column[T]{}, cols...), l.actionsColumn()...)
	return l
}

// WithDetail adds a read-only detail view that loads records with lookup.
func (l *List[T]) WithDetail(lookup func(ctx context.Context, id string) (*T, error)) *List[T] {
	l.lookup = lookup
	l.info.Viewable = true
	l.columns = append(append([]table.Column[T]{}, l.base...), l.actionsColumn()...)
	return l
}

// Detail loads one record and renders every column of it.
func (l *List[T]) Detail(ctx context.Context, id string) (Detail, error) {
	if l.lookup == nil {
		return Detail{}, ErrNoDetail
	}
	rec, err := l.lookup(ctx, id)
	if err != nil {
		return Detail{}, fmt.Errorf("load %s %s: %w", l.info.Name, id, err)
	}
	return Detail{ID: l.rowID(*rec), Fields: table.Record(l.base, *rec)}, nil
}

func (l *List[T]) Info() Info               { return l.info }
func (l *List[T]) Defaults() query.Defaults { return l.defaults }
func (l *List[T]) Columns() []table.Column[T] {
	return l.columns
}

func (l *List[T]) Fetch(ctx context.Context, st *query.State) (Result, error) {
	params := st.Params()
	fetch := func(ctx context.Context) (*model.PagingResponse[T], error) {
		return l.source(ctx, params)
	}

	var (
		page *model.PagingResponse[T]
		err  error
	)
	if l.cache != nil {
		page, err = cache.Get(ctx, l.cache, l.info.Name, params, fetch)
	} else {
		page, err = fetch(ctx)
	}
	if err != nil {
		return Result{}, fmt.Errorf("fetch %s: %w", l.info.Name, err)
	}
	if page.Items == nil {
		page.Items = []T{}
	}
	return Result{page: page, total: page.Total}, nil
}

func (l *List[T]) Build(res Result, st *query.State, vis table.Visibility) table.Grid {
	var page *model.PagingResponse[T]
	if res.page != nil {
		page, _ = res.page.(*model.PagingResponse[T])
	}
	return table.Build(l.columns, page, table.Options[T]{
		BasePath:   l.info.BasePath(),
		State:      st,
		Visibility: vis,
		RowID:      l.rowID,
	})
}

// Items returns the records of res.
func (l *List[T]) Items(res Result) []T {
	page, ok := res.page.(*model.PagingResponse[T])
	if !ok {
		return nil
	}
	return page.Items
}

func (l *List[T]) actionsColumn() []table.Column[T] {
	if !l.info.Viewable && !l.info.Editable && !l.info.Deletable {
		return nil
	}
	info := l.info
	return []table.Column[T]{{
		ID:     table.ActionsColumn,
		Header: "Hành động",
		Kind:   table.Actions,
		Actions: func(row T) []table.Action {
			id := l.rowID(row)
			var out []table.Action
			if info.Viewable {
				out = append(out, table.Action{Label: "Xem chi tiết", URL: info.DetailURL(id), Method: "GET"})
			}
			if info.Editable {
				out = append(out, table.Action{Label: "Chỉnh sửa", URL: info.EditURL(id), Method: "GET"})
			}
			if info.Deletable {
				out = append(out, table.Action{
					Label:   "Xóa",
					URL:     info.DeleteURL(id),
					Method:  "POST",
					Confirm: "Bạn có chắc chắn muốn xóa " + info.Noun + " này không?",
				})
			}
			return out
		},
	}}
}

// Registry looks screens up by name.
type Registry struct {
	screens map[string]Screen
	order   []string
}

func NewRegistry(screens ...Screen) *Registry {
	r := &Registry{screens: make(map[string]Screen, len(screens))}
	for _, s := range screens {
		name := s.Info().Name
		if _, dup := r.screens[name]; !dup {
			r.order = append(r.order, name)
		}
		r.screens[name] = s
	}
	return r
}

func (r *Registry) Lookup(name string) (Screen, bool) {
	s, ok := r.screens[name]
	return s, ok
}

// All returns the screens in registration order.
func (r *Registry) All() []Screen {
	out := make([]Screen, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.screens[name])
	}
	return out
}
