package live

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kiosk-admin-console/internal/cache"
	"kiosk-admin-console/internal/model"
	"kiosk-admin-console/internal/query"
	"kiosk-admin-console/internal/resource"
	"kiosk-admin-console/internal/table"
	"kiosk-admin-console/internal/upstream"
)

type fakeConn struct {
	events chan Event
	frames chan Frame
	once   sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{events: make(chan Event), frames: make(chan Frame, 100)}
}

func (c *fakeConn) ReadJSON(v any) error {
	ev, ok := <-c.events
	if !ok {
		return io.EOF
	}
	*(v.(*Event)) = ev
	return nil
}

func (c *fakeConn) WriteJSON(v any) error {
	c.frames <- v.(Frame)
	return nil
}

func (c *fakeConn) Close() error {
	c.disconnect()
	return nil
}

func (c *fakeConn) disconnect() {
	c.once.Do(func() { close(c.events) })
}

func (c *fakeConn) next(t *testing.T) Frame {
	t.Helper()
	select {
	case f := <-c.frames:
		return f
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for frame")
		return Frame{}
	}
}

func (c *fakeConn) quiet(t *testing.T, d time.Duration) {
	t.Helper()
	select {
	case f := <-c.frames:
		t.Fatalf("unexpected frame %+v", f)
	case <-time.After(d):
	}
}

type textRenderer struct{}

func (textRenderer) RenderGrid(_ resource.Info, g table.Grid, _ *query.State) (string, error) {
	if g.Loading {
		return fmt.Sprintf("skeleton:%d", len(g.Rows)), nil
	}
	ids := []string{}
	for _, r := range g.Rows {
		if r.Empty {
			return "empty", nil
		}
		ids = append(ids, r.ID)
	}
	return fmt.Sprintf("rows:%s cols:%d", strings.Join(ids, ","), g.VisibleCount), nil
}

type item struct{ ID string }

type source struct {
	mu      sync.Mutex
	calls   []model.PagingParams
	release chan struct{}
	fail    bool
	expired bool
}

func (s *source) fetch(ctx context.Context, p model.PagingParams) (*model.PagingResponse[item], error) {
	s.mu.Lock()
	s.calls = append(s.calls, p)
	fail := s.fail
	expired := s.expired
	s.mu.Unlock()

	if p.Status == "slow" {
		select {
		case <-s.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if fail {
		return nil, errors.New("connection refused")
	}
	if expired {
		return nil, &upstream.APIError{Status: http.StatusUnauthorized, Message: "Token expired"}
	}
	id := p.Status + p.FilterQuery
	if id == "" {
		id = "all"
	}
	return &model.PagingResponse[item]{Items: []item{{ID: id}}, Total: 1, TotalPages: 1, Page: p.Page, Size: p.Size}, nil
}

func (s *source) params() []model.PagingParams {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.PagingParams(nil), s.calls...)
}

func newScreen(src *source) *resource.List[item] {
	cols := []table.Column[item]{
		{ID: "id", Header: "ID", Kind: table.Text, Sortable: true, Value: func(i item) any { return i.ID }},
		{ID: "note", Header: "Note", Kind: table.Text, Hideable: true, Value: func(i item) any { return "" }},
	}
	info := resource.Info{Name: "items", SearchField: "id"}
	return resource.NewList(info, query.Defaults{PageSize: 10, PageSizeOptions: []int{10, 20}}, cols,
		func(i item) string { return i.ID }, src.fetch, nil)
}

type prefsFake struct {
	mu     sync.Mutex
	hidden []string
}

func (p *prefsFake) SaveViewPreference(_ context.Context, _, _ string, hidden []string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.hidden = hidden
	return nil
}

type harness struct {
	conn    *fakeConn
	src     *source
	manager *Manager
	done    chan struct{}
}

func start(t *testing.T, o Options, src *source) *harness {
	t.Helper()
	if o.Renderer == nil {
		o.Renderer = textRenderer{}
	}
	if o.Debounce == 0 {
		o.Debounce = 50 * time.Millisecond
	}
	h := &harness{conn: newFakeConn(), src: src, manager: NewManager(o), done: make(chan struct{})}
	screen := newScreen(src)
	go func() {
		defer close(h.done)
		h.manager.Serve(context.Background(), h.conn, screen, query.New(screen.Defaults()), table.Visibility{}, "u-1")
	}()
	t.Cleanup(func() {
		h.conn.disconnect()
		<-h.done
	})

	loading := h.conn.next(t)
	require.Equal(t, FrameLoading, loading.Type)
	assert.Equal(t, "skeleton:10", loading.HTML)
	data := h.conn.next(t)
	require.Equal(t, FrameData, data.Type)
	assert.Equal(t, "rows:all cols:2", data.HTML)
	return h
}

func (h *harness) send(ev Event) {
	h.conn.events <- ev
}

func TestSession_DebouncedSearchFetchesOnce(t *testing.T) {
	h := start(t, Options{}, &source{})

	for _, v := range []string{"a", "ab", "abc"} {
		h.send(Event{Type: EventSearch, Value: v})
	}

	assert.Equal(t, FrameLoading, h.conn.next(t).Type)
	data := h.conn.next(t)
	assert.Equal(t, "rows:abc cols:2", data.HTML)
	assert.Equal(t, "/ui/items?q=abc", data.URL)

	calls := h.src.params()
	require.Len(t, calls, 2)
	assert.Equal(t, "abc", calls[1].FilterQuery)
	assert.Equal(t, "id", calls[1].FilterBy)
}

func TestSession_StaleResponseIsDropped(t *testing.T) {
	src := &source{release: make(chan struct{})}
	h := start(t, Options{}, src)

	h.send(Event{Type: EventStatus, Value: "slow"})
	slowLoading := h.conn.next(t)
	assert.Equal(t, FrameLoading, slowLoading.Type)

	h.send(Event{Type: EventStatus, Value: "fast"})
	fastLoading := h.conn.next(t)
	assert.Equal(t, FrameLoading, fastLoading.Type)
	assert.Greater(t, fastLoading.Generation, slowLoading.Generation)

	data := h.conn.next(t)
	assert.Equal(t, "rows:fast cols:2", data.HTML)
	assert.Equal(t, fastLoading.Generation, data.Generation)

	close(src.release)
	h.conn.quiet(t, 100*time.Millisecond)
}

func TestSession_StateEvents(t *testing.T) {
	h := start(t, Options{}, &source{})

	h.send(Event{Type: EventPage, Value: "3"})
	assert.Equal(t, "skeleton:10", h.conn.next(t).HTML)
	assert.Equal(t, "/ui/items?page=3", h.conn.next(t).URL)

	h.send(Event{Type: EventSize, Value: "20"})
	assert.Equal(t, "skeleton:20", h.conn.next(t).HTML)
	assert.Equal(t, "/ui/items?size=20", h.conn.next(t).URL)

	// Not an allowed size: no reload.
	h.send(Event{Type: EventSize, Value: "7"})
	h.send(Event{Type: EventSort, Column: "id"})
	h.conn.next(t)
	assert.Equal(t, "/ui/items?dir=asc&size=20&sort=id", h.conn.next(t).URL)

	calls := h.src.params()
	last := calls[len(calls)-1]
	assert.Equal(t, 1, last.Page)
	assert.Equal(t, 20, last.Size)
	assert.Equal(t, "id", last.SortBy)
}

func TestSession_ToggleColumnRerendersWithoutFetch(t *testing.T) {
	prefs := &prefsFake{}
	h := start(t, Options{Prefs: prefs}, &source{})

	h.send(Event{Type: EventToggleColumn, Column: "note"})
	data := h.conn.next(t)
	assert.Equal(t, FrameData, data.Type)
	assert.Equal(t, "rows:all cols:1", data.HTML)

	assert.Len(t, h.src.params(), 1)
	prefs.mu.Lock()
	assert.Equal(t, []string{"note"}, prefs.hidden)
	prefs.mu.Unlock()
}

func TestSession_RevalidationReloads(t *testing.T) {
	hub := cache.NewHub()
	c := cache.New(time.Minute, time.Minute, cache.WithHub(hub))
	h := start(t, Options{Hub: hub, Revalidator: c}, &source{})

	require.Eventually(t, func() bool { return hub.Subscribers("items") == 1 }, time.Second, 10*time.Millisecond)

	h.send(Event{Type: EventRefresh})
	assert.Equal(t, FrameLoading, h.conn.next(t).Type)
	assert.Equal(t, FrameData, h.conn.next(t).Type)
	assert.Len(t, h.src.params(), 2)
}

func TestSession_FetchErrorSendsToast(t *testing.T) {
	src := &source{}
	h := start(t, Options{}, src)

	src.mu.Lock()
	src.fail = true
	src.mu.Unlock()

	h.send(Event{Type: EventFilter, Column: "kioskVersionId", Value: "kv-1"})
	assert.Equal(t, FrameLoading, h.conn.next(t).Type)
	toast := h.conn.next(t)
	require.Equal(t, FrameToast, toast.Type)
	assert.Equal(t, "Lỗi tải dữ liệu", toast.Toast.Title)
	assert.Equal(t, "Đã xảy ra lỗi không xác định", toast.Toast.Description)
}

func TestManager_CountsSessions(t *testing.T) {
	src := &source{}
	h := start(t, Options{}, src)
	assert.Equal(t, 1, h.manager.Open())

	h.conn.disconnect()
	<-h.done
	assert.Equal(t, 0, h.manager.Open())
}

func TestSession_RejectedTokenSendsExpiredAndCloses(t *testing.T) {
	src := &source{}
	h := start(t, Options{}, src)

	src.mu.Lock()
	src.expired = true
	src.mu.Unlock()

	h.send(Event{Type: EventPage, Value: "2"})
	assert.Equal(t, FrameLoading, h.conn.next(t).Type)
	assert.Equal(t, FrameExpired, h.conn.next(t).Type)

	select {
	case <-h.done:
	case <-time.After(2 * time.Second):
		t.Fatal("session kept running after the token was rejected")
	}
}

func TestManager_ShutdownEndsSessions(t *testing.T) {
	h := start(t, Options{}, &source{})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, h.manager.Shutdown(ctx))

	select {
	case <-h.done:
	case <-time.After(time.Second):
		t.Fatal("Serve still running after Shutdown returned")
	}
	assert.Equal(t, 0, h.manager.Open())

	late := newFakeConn()
	screen := newScreen(&source{})
	h.manager.Serve(context.Background(), late, screen, query.New(screen.Defaults()), table.Visibility{}, "u-1")
	assert.Empty(t, late.frames)
}

func TestSession_LoadAfterCloseStartsNothing(t *testing.T) {
	src := &source{}
	screen := newScreen(src)
	conn := newFakeConn()
	s := &Session{
		ctx:    context.Background(),
		conn:   conn,
		screen: screen,
		render: textRenderer{},
		state:  query.New(screen.Defaults()),
	}
	s.close()
	s.load()
	s.wg.Wait()

	assert.Empty(t, conn.frames)
	assert.Empty(t, src.params())
}
