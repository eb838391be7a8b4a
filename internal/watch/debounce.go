package watch

import (
	"slices"
	"sync"
	"time"
)

// Debouncer collects file changes and calls back once no change arrived
// for the configured duration.
type Debouncer struct {
	duration time.Duration
	timer    *time.Timer
	files    map[string]struct{}
	mu       sync.Mutex
	callback func([]string)
	stopped  bool
}

// NewDebouncer returns a debouncer waiting for duration.
func NewDebouncer(duration time.Duration) *Debouncer {
	return &Debouncer{
		duration: duration,
		files:    make(map[string]struct{}),
	}
}

// Add records a changed file and restarts the delay.
func (d *Debouncer) Add(file string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.files[file] = struct{}{}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, d.flush)
}

// flush calls back with the accumulated files, sorted. The callback runs
// outside the lock.
func (d *Debouncer) flush() {
	d.mu.Lock()
	if len(d.files) == 0 || d.stopped {
		d.mu.Unlock()
		return
	}
	files := make([]string, 0, len(d.files))
	for file := range d.files {
		files = append(files, file)
	}
	d.files = make(map[string]struct{})
	callback := d.callback
	d.mu.Unlock()

	slices.Sort(files)
	if callback != nil {
		callback(files)
	}
}

// SetCallback sets the callback function.
func (d *Debouncer) SetCallback(callback func([]string)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.callback = callback
}

// Stop cancels the pending callback. Later calls to Add are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.stopped = true
}
