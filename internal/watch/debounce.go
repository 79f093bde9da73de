// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package watch

import (
	"sync"
	"time"
)

// debouncer coalesces bursts of filesystem events per path: each Trigger
// resets the path's timer, and the callback fires once the path has been
// quiet for the settle delay.
type debouncer struct {
	mu       sync.Mutex
	pending  map[string]*time.Timer
	settle   time.Duration
	callback func(string)
}

func newDebouncer(settle time.Duration, callback func(string)) *debouncer {
	return &debouncer{
		pending:  make(map[string]*time.Timer),
		settle:   settle,
		callback: callback,
	}
}

// Trigger schedules or resets the timer for a file path.
func (d *debouncer) Trigger(filePath string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if timer, exists := d.pending[filePath]; exists {
		timer.Stop()
	}

	d.pending[filePath] = time.AfterFunc(d.settle, func() {
		d.mu.Lock()
		delete(d.pending, filePath)
		callback := d.callback
		d.mu.Unlock()

		if callback != nil {
			callback(filePath)
		}
	})
}

// Stop cancels all pending timers.
func (d *debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, timer := range d.pending {
		timer.Stop()
	}
	d.pending = make(map[string]*time.Timer)
}
