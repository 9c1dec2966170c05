package windowing

import (
	"sync"
	"time"
)

// DefaultIdleDelay is how long scrolling must pause before cached layout
// artifacts are dropped.
const DefaultIdleDelay = 150 * time.Millisecond

// debouncer runs a function once calls to Trigger stop for delay. Each
// Trigger restarts the wait, and Cancel drops the pending run. A run that
// was already started by its timer checks the generation it was scheduled
// with, so a Cancel or newer Trigger always wins.
type debouncer struct {
	delay time.Duration

	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
}

func newDebouncer(delay time.Duration) *debouncer {
	if delay <= 0 {
		delay = DefaultIdleDelay
	}
	return &debouncer{delay: delay}
}

// Trigger (re)starts the wait. fn receives the generation it was scheduled
// under and must ignore the call when current reports it stale.
func (d *debouncer) Trigger(fn func(gen uint64)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() { fn(gen) })
}

// Cancel drops any pending run.
func (d *debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}

// current reports whether gen is the latest scheduled generation.
func (d *debouncer) current(gen uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return gen == d.gen
}

// Pending reports whether a run is scheduled.
func (d *debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// done clears the timer once gen has run.
func (d *debouncer) done(gen uint64) {
	d.mu.Lock()
	if gen == d.gen {
		d.timer = nil
	}
	d.mu.Unlock()
}
