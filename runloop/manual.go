package runloop

import (
	"sync"
	"time"
)

// ManualScheduler records scheduled callbacks and runs them only when told
// to. It stands in for a TimerScheduler wherever delays should not be real.
type ManualScheduler struct {
	mu      sync.Mutex
	pending []scheduled
}

type scheduled struct {
	delay time.Duration
	fn    func()
}

// NewManualScheduler creates an empty ManualScheduler.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// After records fn.
func (m *ManualScheduler) After(d time.Duration, fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = append(m.pending, scheduled{delay: d, fn: fn})
}

// Delays lists the delays of callbacks not yet fired, in scheduling order.
func (m *ManualScheduler) Delays() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]time.Duration, len(m.pending))
	for i, s := range m.pending {
		out[i] = s.delay
	}
	return out
}

// FireAll runs every recorded callback in scheduling order and returns how
// many ran. Callbacks scheduled while firing are kept for the next call.
func (m *ManualScheduler) FireAll() int {
	m.mu.Lock()
	batch := m.pending
	m.pending = nil
	m.mu.Unlock()

	for _, s := range batch {
		s.fn()
	}
	return len(batch)
}
