package pinboard

import "time"

// Debouncer coalesces calls made within a quiet window into one call carrying
// the last value. A superseded call simply never fires.
type Debouncer[T any] struct {
	sched Scheduler
	wait  time.Duration
	fn    func(T)

	timer *Timer
	value T
}

// NewDebouncer creates a Debouncer that calls fn once wait has passed
// without another Call.
func NewDebouncer[T any](sched Scheduler, wait time.Duration, fn func(T)) *Debouncer[T] {
	return &Debouncer[T]{sched: sched, wait: wait, fn: fn}
}

// Call records v and restarts the quiet window.
func (d *Debouncer[T]) Call(v T) {
	d.value = v
	d.timer.Stop()
	d.timer = d.sched.AfterFunc(d.wait, d.fire)
}

// Pending reports whether a call is waiting for its window to elapse.
func (d *Debouncer[T]) Pending() bool {
	return d.timer.Pending()
}

// Flush fires the pending call immediately. Reports whether one was pending.
func (d *Debouncer[T]) Flush() bool {
	if !d.timer.Stop() {
		return false
	}
	d.fire()
	return true
}

// Cancel drops the pending call.
func (d *Debouncer[T]) Cancel() {
	d.timer.Stop()
	d.timer = nil
}

func (d *Debouncer[T]) fire() {
	v := d.value
	var zero T
	d.value = zero
	d.timer = nil
	d.fn(v)
}
