// Package live drives a list screen over a websocket: the browser sends
// interaction events, the server answers with rendered table frames.
package live

import (
	"context"
	"errors"
	"log"
	"strconv"
	"sync"

	"kiosk-admin-console/internal/notification"
	"kiosk-admin-console/internal/query"
	"kiosk-admin-console/internal/resource"
	"kiosk-admin-console/internal/table"
	"kiosk-admin-console/internal/upstream"
)

// Frame types sent to the browser.
const (
	FrameLoading = "loading"
	FrameData    = "data"
	FrameToast   = "toast"
	// FrameExpired tells the browser the backend rejected the session
	// token. The page reloads so the token is refreshed.
	FrameExpired = "expired"
)

// Event types received from the browser.
const (
	EventSearch       = "search"
	EventSort         = "sort"
	EventStatus       = "status"
	EventFilter       = "filter"
	EventPage         = "page"
	EventSize         = "size"
	EventToggleColumn = "toggleColumn"
	EventRefresh      = "refresh"
)

// Event is one browser interaction.
type Event struct {
	Type   string `json:"type"`
	Column string `json:"column,omitempty"`
	Value  string `json:"value,omitempty"`
}

// Frame is one server message.
type Frame struct {
	Type       string              `json:"type"`
	Generation uint64              `json:"generation"`
	HTML       string              `json:"html,omitempty"`
	URL        string              `json:"url,omitempty"`
	Total      int                 `json:"total,omitempty"`
	Toast      *notification.Toast `json:"toast,omitempty"`
}

// Conn is the subset of *websocket.Conn a session uses.
type Conn interface {
	ReadJSON(v any) error
	WriteJSON(v any) error
	Close() error
}

// Renderer turns a grid into the HTML fragment of the table.
type Renderer interface {
	RenderGrid(info resource.Info, g table.Grid, st *query.State) (string, error)
}

// PreferenceSaver persists hidden columns.
type PreferenceSaver interface {
	SaveViewPreference(ctx context.Context, userID, resource string, hidden []string) error
}

// Revalidator forces a re-fetch of every page of an endpoint.
type Revalidator interface {
	Revalidate(ctx context.Context, endpoint string) error
}

// Session is one open list page.
type Session struct {
	ctx    context.Context
	conn   Conn
	screen resource.Screen
	render Renderer
	prefs  PreferenceSaver
	reval  Revalidator
	userID string

	writeMu sync.Mutex

	mu     sync.Mutex
	state  *query.State
	vis    table.Visibility
	last   resource.Result
	ticket uint64
	closed bool
	search *query.Debouncer
	wg     sync.WaitGroup
}

// close stops later loads from starting fetches.
func (s *Session) close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

// handle applies one event. Unknown events are ignored.
func (s *Session) handle(ev Event) {
	switch ev.Type {
	case EventSearch:
		s.search.Trigger(ev.Value)
		return
	case EventToggleColumn:
		s.toggleColumn(ev.Column)
		return
	case EventRefresh:
		s.refresh()
		return
	}

	s.mu.Lock()
	var changed bool
	switch ev.Type {
	case EventSort:
		changed = s.state.ToggleSort(ev.Column)
	case EventStatus:
		changed = s.state.SetStatus(ev.Value)
	case EventFilter:
		changed = s.state.SetColumnFilter(ev.Column, ev.Value)
	case EventPage:
		if n, err := strconv.Atoi(ev.Value); err == nil {
			changed = s.state.SetPage(n)
		}
	case EventSize:
		if n, err := strconv.Atoi(ev.Value); err == nil {
			changed = s.state.SetPageSize(n)
		}
	}
	s.mu.Unlock()

	if changed {
		s.load()
	}
}

// applySearch receives the debounced search value.
func (s *Session) applySearch(v string) {
	s.mu.Lock()
	changed := s.state.ApplySearch(v)
	s.mu.Unlock()
	if changed {
		s.load()
	}
}

func (s *Session) toggleColumn(column string) {
	if column == "" {
		return
	}
	s.mu.Lock()
	s.vis = s.vis.Toggle(column)
	hidden := s.vis.Hidden()
	st := s.state.Clone()
	vis := s.vis
	res := s.last
	s.mu.Unlock()

	if s.prefs != nil && s.userID != "" {
		if err := s.prefs.SaveViewPreference(s.ctx, s.userID, s.screen.Info().Name, hidden); err != nil {
			log.Printf("live: saving columns of %s: %v", s.screen.Info().Name, err)
		}
	}
	if res.Loaded() {
		s.send(s.frame(FrameData, st, vis, res))
	}
}

// refresh revalidates the endpoint; the hub notice then reloads every
// session showing it, this one included.
func (s *Session) refresh() {
	if s.reval == nil {
		s.load()
		return
	}
	if err := s.reval.Revalidate(s.ctx, s.screen.Info().Name); err != nil {
		log.Printf("live: revalidate %s: %v", s.screen.Info().Name, err)
		s.load()
	}
}

// load sends a loading frame and fetches the current state. Only the
// result of the latest load is sent.
func (s *Session) load() {
	if s.ctx.Err() != nil {
		return
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.ticket++
	ticket := s.ticket
	st := s.state.Clone()
	vis := s.vis
	s.wg.Add(1)
	s.mu.Unlock()

	s.send(s.frame(FrameLoading, st, vis, resource.Result{}))

	go func() {
		defer s.wg.Done()
		res, err := s.screen.Fetch(s.ctx, st)

		s.mu.Lock()
		current := ticket == s.ticket
		if current && err == nil {
			s.last = res
		}
		vis := s.vis
		s.mu.Unlock()

		if !current || s.ctx.Err() != nil {
			return
		}
		if errors.Is(err, upstream.ErrUnauthorized) {
			s.send(Frame{Type: FrameExpired, Generation: st.Generation()})
			s.conn.Close()
			return
		}
		if err != nil {
			log.Printf("live: fetch %s: %v", s.screen.Info().Name, err)
			s.send(Frame{
				Type:       FrameToast,
				Generation: st.Generation(),
				Toast: &notification.Toast{
					Title:       "Lỗi tải dữ liệu",
					Description: upstream.Message(err),
					Variant:     notification.VariantDestructive,
				},
			})
			return
		}
		s.send(s.frame(FrameData, st, vis, res))
	}()
}

func (s *Session) frame(typ string, st *query.State, vis table.Visibility, res resource.Result) Frame {
	info := s.screen.Info()
	f := Frame{Type: typ, Generation: st.Generation(), Total: res.Total(), URL: info.BasePath()}
	if q := st.Encode(); q != "" {
		f.URL += "?" + q
	}
	html, err := s.render.RenderGrid(info, s.screen.Build(res, st, vis), st)
	if err != nil {
		log.Printf("live: render %s: %v", info.Name, err)
	}
	f.HTML = html
	return f
}

func (s *Session) send(f Frame) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.WriteJSON(f); err != nil && s.ctx.Err() == nil {
		log.Printf("live: write %s frame: %v", f.Type, err)
	}
}
