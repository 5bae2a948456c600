package pinboard

import "time"

// Scheduler defers work on the single event-handling goroutine. Nothing runs
// concurrently: callbacks fire from inside Advance.
type Scheduler interface {
	// AfterFunc runs fn once d has elapsed. The returned Timer cancels it.
	AfterFunc(d time.Duration, fn func()) *Timer
	// NextFrame runs fn at the start of the frame after the current one
	// ends, so the current frame is always rendered first.
	NextFrame(fn func())
}

// Timer is a cancelable scheduled callback.
type Timer struct {
	due      time.Duration
	fn       func()
	canceled bool
	fired    bool
}

// Stop cancels the timer. Reports whether the call prevented it from firing.
func (t *Timer) Stop() bool {
	if t == nil || t.fired || t.canceled {
		return false
	}
	t.canceled = true
	return true
}

// Pending reports whether the timer is still armed.
func (t *Timer) Pending() bool {
	return t != nil && !t.fired && !t.canceled
}

// FrameScheduler is a Scheduler driven by frame ticks. Time only moves when
// Advance is called, which keeps sessions deterministic under test and lets
// the game loop drive them with its frame delta.
//
// A frame runs from one EndFrame to the next. NextFrame callbacks queued
// during a frame run in the first Advance after that frame ends.
type FrameScheduler struct {
	now    time.Duration
	timers []*Timer
	queued []func() // queued during the current frame
	ready  []func() // due at the next Advance
}

// NewFrameScheduler creates a scheduler at time zero.
func NewFrameScheduler() *FrameScheduler {
	return &FrameScheduler{}
}

// Now returns the elapsed scheduler time.
func (s *FrameScheduler) Now() time.Duration { return s.now }

// AfterFunc implements Scheduler.
func (s *FrameScheduler) AfterFunc(d time.Duration, fn func()) *Timer {
	t := &Timer{due: s.now + d, fn: fn}
	s.timers = append(s.timers, t)
	return t
}

// NextFrame implements Scheduler.
func (s *FrameScheduler) NextFrame(fn func()) {
	s.queued = append(s.queued, fn)
}

// EndFrame closes the current frame. Callbacks queued during it become due
// at the next Advance.
func (s *FrameScheduler) EndFrame() {
	s.ready = append(s.ready, s.queued...)
	s.queued = nil
}

// Advance runs the callbacks of frames that have ended, moves time forward
// by dt, and fires every timer that is now due, in due order. Callbacks
// queued while advancing wait until the current frame ends.
func (s *FrameScheduler) Advance(dt time.Duration) {
	ready := s.ready
	s.ready = nil
	for _, fn := range ready {
		fn()
	}

	s.now += dt
	for {
		t := s.popDue()
		if t == nil {
			break
		}
		t.fired = true
		t.fn()
	}
}

// popDue removes and returns the earliest due, live timer.
func (s *FrameScheduler) popDue() *Timer {
	best := -1
	live := s.timers[:0]
	for _, t := range s.timers {
		if t.canceled || t.fired {
			continue
		}
		live = append(live, t)
	}
	for i := len(live); i < len(s.timers); i++ {
		s.timers[i] = nil
	}
	s.timers = live

	for i, t := range s.timers {
		if t.due <= s.now && (best < 0 || t.due < s.timers[best].due) {
			best = i
		}
	}
	if best < 0 {
		return nil
	}
	t := s.timers[best]
	s.timers = append(s.timers[:best], s.timers[best+1:]...)
	return t
}

// PendingTimers returns the number of armed timers.
func (s *FrameScheduler) PendingTimers() int {
	n := 0
	for _, t := range s.timers {
		if t.Pending() {
			n++
		}
	}
	return n
}
