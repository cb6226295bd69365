package notification

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const (
	VariantDefault     = "default"
	VariantSuccess     = "success"
	VariantDestructive = "destructive"
)

// Toast is a transient, non-blocking notification.
type Toast struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Variant     string `json:"variant"`
}

// Toaster keeps a short-lived toast queue per browser session.
type Toaster struct {
	mu    sync.Mutex
	store *gocache.Cache
	ttl   time.Duration
}

func NewToaster(ttl time.Duration) *Toaster {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Toaster{store: gocache.New(ttl, 2*ttl), ttl: ttl}
}

// Push appends t to the queue of session sid.
func (t *Toaster) Push(sid string, toast Toast) {
	if sid == "" {
		return
	}
	if toast.Variant == "" {
		toast.Variant = VariantDefault
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	var queue []Toast
	if v, ok := t.store.Get(sid); ok {
		queue = v.([]Toast)
	}
	t.store.Set(sid, append(queue, toast), t.ttl)
}

// Error queues a destructive toast.
func (t *Toaster) Error(sid, title, description string) {
	t.Push(sid, Toast{Title: title, Description: description, Variant: VariantDestructive})
}

// Success queues a success toast.
func (t *Toaster) Success(sid, title, description string) {
	t.Push(sid, Toast{Title: title, Description: description, Variant: VariantSuccess})
}

// Drain returns and clears the queue of sid.
func (t *Toaster) Drain(sid string) []Toast {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.store.Get(sid)
	if !ok {
		return nil
	}
	t.store.Delete(sid)
	return v.([]Toast)
}
