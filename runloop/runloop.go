// Package runloop gives the PDP a single logical thread of control: an
// Executor that runs posted work one item at a time, and a Scheduler that
// delivers delayed callbacks onto that executor.
package runloop

import (
	"sync"
	"time"
)

// Executor runs posted functions. Implementations must never run two posted
// functions at the same time.
type Executor interface {
	Post(fn func())
}

// Scheduler runs a callback once after a delay. Fire and forget.
type Scheduler interface {
	After(d time.Duration, fn func())
}

// Inline runs posted functions immediately on the caller's goroutine. Use it
// when the caller already guarantees a single thread of control, as tests do.
type Inline struct{}

// Post runs fn now.
func (Inline) Post(fn func()) { fn() }

// Loop is an Executor backed by one goroutine draining a FIFO of functions.
type Loop struct {
	mu      sync.Mutex
	cond    *sync.Cond
	pending []func()
	closed  bool
	done    chan struct{}
}

// NewLoop starts a loop goroutine. Call Close to stop it.
func NewLoop() *Loop {
	l := &Loop{done: make(chan struct{})}
	l.cond = sync.NewCond(&l.mu)
	go l.run()
	return l
}

func (l *Loop) run() {
	defer close(l.done)
	for {
		l.mu.Lock()
		for len(l.pending) == 0 && !l.closed {
			l.cond.Wait()
		}
		if len(l.pending) == 0 && l.closed {
			l.mu.Unlock()
			return
		}
		fn := l.pending[0]
		l.pending[0] = nil
		l.pending = l.pending[1:]
		l.mu.Unlock()

		fn()
	}
}

// Post queues fn. Work posted after Close is dropped.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.pending = append(l.pending, fn)
	l.cond.Signal()
}

// Sync blocks until everything posted before the call has run. It returns
// immediately once the loop is closed.
func (l *Loop) Sync() {
	ran := make(chan struct{})
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.pending = append(l.pending, func() { close(ran) })
	l.cond.Signal()
	l.mu.Unlock()

	select {
	case <-ran:
	case <-l.done:
	}
}

// Close stops accepting work, runs what is already queued and waits for the
// loop goroutine to exit. Must not be called from a posted function.
func (l *Loop) Close() {
	l.Stop()
	<-l.done
}

// Stop is Close without the wait. It may be called from a posted function;
// the loop exits once the queued work has run.
func (l *Loop) Stop() {
	l.mu.Lock()
	l.closed = true
	l.cond.Broadcast()
	l.mu.Unlock()
}

// Done is closed when the loop goroutine has exited.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// TimerScheduler implements Scheduler with time.AfterFunc, delivering each
// callback through an Executor.
type TimerScheduler struct {
	exec Executor

	mu      sync.Mutex
	timers  map[*time.Timer]struct{}
	stopped bool
}

// NewTimerScheduler creates a scheduler posting fired callbacks onto exec.
func NewTimerScheduler(exec Executor) *TimerScheduler {
	return &TimerScheduler{
		exec:   exec,
		timers: make(map[*time.Timer]struct{}),
	}
}

// After schedules fn. It is ignored once the scheduler is stopped.
func (s *TimerScheduler) After(d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	var t *time.Timer
	t = time.AfterFunc(d, func() {
		s.mu.Lock()
		_, live := s.timers[t]
		delete(s.timers, t)
		s.mu.Unlock()
		if live {
			s.exec.Post(fn)
		}
	})
	s.timers[t] = struct{}{}
}

// Pending returns the number of callbacks that have not fired yet.
func (s *TimerScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Stop cancels every pending callback and rejects future ones.
func (s *TimerScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	for t := range s.timers {
		t.Stop()
		delete(s.timers, t)
	}
}
