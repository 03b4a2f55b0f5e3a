// Package schedule runs deferred work on the next frame.
//
// A Slot holds at most one pending task. Scheduling a new task cancels the
// previous one if it has not fired yet, so a burst of updates collapses
// into a single run.
package schedule

import (
	"sync"
	"time"
)

// DefaultFrameInterval approximates one display frame.
const DefaultFrameInterval = 16 * time.Millisecond

// Frames requests a callback on the next frame.
type Frames interface {
	// Request arranges for fn to run once on the next frame and returns a
	// function that cancels the request. Cancel after firing is a no-op.
	Request(fn func()) (cancel func())
}

// Slot is a single-task debouncing slot. It is safe for concurrent use.
type Slot struct {
	frames Frames

	mu     sync.Mutex
	cancel func()
	gen    uint64
}

// NewSlot returns a slot that schedules on frames. A nil frames uses
// TimerFrames with DefaultFrameInterval.
func NewSlot(frames Frames) *Slot {
	if frames == nil {
		frames = NewTimerFrames(DefaultFrameInterval)
	}
	return &Slot{frames: frames}
}

// Schedule replaces any pending task with fn.
func (s *Slot) Schedule(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	gen := s.gen
	s.cancel = s.frames.Request(func() {
		s.mu.Lock()
		if s.gen != gen {
			s.mu.Unlock()
			return
		}
		s.cancel = nil
		s.mu.Unlock()
		fn()
	})
}

// Cancel drops the pending task, if any.
func (s *Slot) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.gen++
}

// Pending reports whether a task is waiting to fire.
func (s *Slot) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// TimerFrames fires requests after a fixed interval on a timer goroutine.
type TimerFrames struct {
	interval time.Duration
}

// NewTimerFrames returns frames spaced interval apart.
func NewTimerFrames(interval time.Duration) *TimerFrames {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &TimerFrames{interval: interval}
}

func (f *TimerFrames) Request(fn func()) func() {
	t := time.AfterFunc(f.interval, fn)
	return func() { t.Stop() }
}

// ManualFrames queues requests until Flush is called. Tests use it to
// advance frames deterministically.
type ManualFrames struct {
	mu      sync.Mutex
	next    int
	pending map[int]func()
	order   []int
}

// NewManualFrames returns an empty frame queue.
func NewManualFrames() *ManualFrames {
	return &ManualFrames{pending: make(map[int]func())}
}

func (f *ManualFrames) Request(fn func()) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.next
	f.next++
	f.pending[id] = fn
	f.order = append(f.order, id)
	return func() {
		f.mu.Lock()
		delete(f.pending, id)
		f.mu.Unlock()
	}
}

// Pending returns the number of requests waiting for a frame.
func (f *ManualFrames) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pending)
}

// Flush fires every pending request in request order and returns how many
// ran. Requests made while flushing wait for the next Flush.
func (f *ManualFrames) Flush() int {
	f.mu.Lock()
	order := f.order
	f.order = nil
	fns := make([]func(), 0, len(order))
	for _, id := range order {
		if fn, ok := f.pending[id]; ok {
			fns = append(fns, fn)
			delete(f.pending, id)
		}
	}
	f.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
	return len(fns)
}
