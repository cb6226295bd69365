package cache

import "sync"

// Hub fans revalidation notices out to subscribers of an endpoint.
type Hub struct {
	mu   sync.Mutex
	subs map[string]map[chan struct{}]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[chan struct{}]struct{})}
}

// Subscribe returns a channel signalled after each revalidation of
// endpoint, and a function that cancels the subscription. Notices arriving
// while one is pending are coalesced.
func (h *Hub) Subscribe(endpoint string) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	h.mu.Lock()
	if h.subs[endpoint] == nil {
		h.subs[endpoint] = make(map[chan struct{}]struct{})
	}
	h.subs[endpoint][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs[endpoint], ch)
			if len(h.subs[endpoint]) == 0 {
				delete(h.subs, endpoint)
			}
			h.mu.Unlock()
		})
	}
}

// Publish signals every subscriber of endpoint without blocking.
func (h *Hub) Publish(endpoint string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[endpoint] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Subscribers returns the number of subscribers of endpoint.
func (h *Hub) Subscribers(endpoint string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[endpoint])
}
