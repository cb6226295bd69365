package live

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"kiosk-admin-console/internal/cache"
	"kiosk-admin-console/internal/metrics"
	"kiosk-admin-console/internal/query"
	"kiosk-admin-console/internal/resource"
	"kiosk-admin-console/internal/table"
)

// Manager starts sessions and counts the open ones.
type Manager struct {
	hub      *cache.Hub
	reval    Revalidator
	prefs    PreferenceSaver
	render   Renderer
	debounce time.Duration
	recorder metrics.Recorder
	open     atomic.Int64

	mu       sync.Mutex
	closed   bool
	done     chan struct{}
	sessions sync.WaitGroup
}

// Options configures a Manager. Hub, Revalidator and Prefs are optional.
type Options struct {
	Hub         *cache.Hub
	Revalidator Revalidator
	Prefs       PreferenceSaver
	Renderer    Renderer
	Debounce    time.Duration
	Recorder    metrics.Recorder
}

func NewManager(o Options) *Manager {
	if o.Recorder == nil {
		o.Recorder = metrics.NoopRecorder{}
	}
	return &Manager{
		hub:      o.Hub,
		reval:    o.Revalidator,
		prefs:    o.Prefs,
		render:   o.Renderer,
		debounce: o.Debounce,
		recorder: o.Recorder,
		done:     make(chan struct{}),
	}
}

// Shutdown ends every running session and refuses new ones. It waits for
// the sessions to finish until ctx is done.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	if !m.closed {
		m.closed = true
		close(m.done)
	}
	m.mu.Unlock()

	finished := make(chan struct{})
	go func() {
		m.sessions.Wait()
		close(finished)
	}()
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Open returns the number of running sessions.
func (m *Manager) Open() int {
	return int(m.open.Load())
}

// Serve runs a session on conn until the browser disconnects, ctx is done
// or the manager shuts down. The initial page is sent right away.
func (m *Manager) Serve(ctx context.Context, conn Conn, screen resource.Screen, st *query.State, vis table.Visibility, userID string) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		conn.Close()
		return
	}
	m.sessions.Add(1)
	m.mu.Unlock()
	defer m.sessions.Done()

	ctx, cancel := context.WithCancel(ctx)
	s := &Session{
		ctx:    ctx,
		conn:   conn,
		screen: screen,
		render: m.render,
		prefs:  m.prefs,
		reval:  m.reval,
		userID: userID,
		state:  st,
		vis:    vis,
	}
	s.search = query.NewDebouncer(m.debounce, s.applySearch)

	m.recorder.SetLiveSessions(int(m.open.Add(1)))
	defer func() {
		s.search.Stop()
		cancel()
		conn.Close()
		s.close()
		s.wg.Wait()
		m.recorder.SetLiveSessions(int(m.open.Add(-1)))
	}()

	// Closing the connection unblocks ReadJSON below.
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		select {
		case <-m.done:
			cancel()
			conn.Close()
		case <-ctx.Done():
		}
	}()

	if m.hub != nil {
		notices, unsubscribe := m.hub.Subscribe(screen.Info().Name)
		defer unsubscribe()
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			for {
				select {
				case <-notices:
					s.load()
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	s.load()
	for {
		var ev Event
		if err := conn.ReadJSON(&ev); err != nil {
			return
		}
		s.handle(ev)
	}
}
