package query

import (
	"sync"
	"time"
)

// DefaultDebounce is the quiet window applied to search input.
const DefaultDebounce = 500 * time.Millisecond

// Debouncer delivers the last value of a burst once the input has been
// quiet for the configured window.
type Debouncer struct {
	wait    time.Duration
	deliver func(string)

	// running is held while deliver runs so Stop can wait for it.
	running sync.Mutex

	mu      sync.Mutex
	timer   *time.Timer
	seq     uint64
	stopped bool
}

// NewDebouncer calls deliver on its own goroutine with the settled value.
func NewDebouncer(wait time.Duration, deliver func(string)) *Debouncer {
	if wait <= 0 {
		wait = DefaultDebounce
	}
	return &Debouncer{wait: wait, deliver: deliver}
}

// Trigger records value and restarts the quiet window.
func (d *Debouncer) Trigger(value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
	seq := d.seq
	d.timer = time.AfterFunc(d.wait, func() {
		d.running.Lock()
		defer d.running.Unlock()

		d.mu.Lock()
		if d.stopped || seq != d.seq {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()
		d.deliver(value)
	})
}

// Pending reports whether a value is waiting for the window to elapse.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Stop discards any pending value and returns once a delivery already in
// progress has finished. Later triggers are ignored. Stop must not be
// called from deliver.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	d.stopped = true
	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()

	d.running.Lock()
	d.running.Unlock()
}
