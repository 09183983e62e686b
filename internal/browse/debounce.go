package browse

import (
	"sync"
	"time"
)

// Debouncer delays propagation of a rapidly changing value until it has been
// stable for the configured delay. Every Set cancels and reschedules the
// pending emission, so one burst of changes produces exactly one call to the
// sink, carrying the last value of the burst.
type Debouncer[T any] struct {
	mu      sync.Mutex
	delay   time.Duration
	sink    func(T)
	timer   *time.Timer
	gen     uint64
	stopped bool
}

func NewDebouncer[T any](delay time.Duration, sink func(T)) *Debouncer[T] {
	return &Debouncer[T]{
		delay: delay,
		sink:  sink,
	}
}

func (d *Debouncer[T]) Set(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	d.gen++
	gen := d.gen

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		// The Stop above can lose the race with an already-fired timer;
		// the generation check makes the superseded emission a no-op.
		d.mu.Lock()
		if d.stopped || gen != d.gen {
			d.mu.Unlock()
			return
		}
		d.mu.Unlock()

		d.sink(v)
	})
}

// Stop cancels any pending emission. The debouncer accepts no further values.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
