// Package service provides in-memory bag and shipping services backed by a
// catalog. They settle through deferred values, optionally after a simulated
// latency, and can be told to fail.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/PeqNP/CommandAndControl/runloop"
)

// ErrGeneric is the opaque failure every service request reports.
var ErrGeneric = errors.New("service request failed")

// Option configures a service.
type Option func(*settings)

type settings struct {
	scheduler runloop.Scheduler
	latency   time.Duration
	logger    *zap.Logger
}

func newSettings(opts []Option) settings {
	s := settings{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithLatency delays every answer by d, delivered through scheduler.
func WithLatency(scheduler runloop.Scheduler, d time.Duration) Option {
	return func(s *settings) {
		s.scheduler = scheduler
		s.latency = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// deliver runs settle now, or after the configured latency.
func (s settings) deliver(settle func()) {
	if s.scheduler == nil || s.latency <= 0 {
		settle()
		return
	}
	s.scheduler.After(s.latency, settle)
}

// faults decides whether the next request fails.
type faults struct {
	mu       sync.Mutex
	failing  bool
	failNext int
}

// SetFailing makes every request fail until called with false.
func (f *faults) SetFailing(failing bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failing = failing
}

// FailNext makes the next n requests fail.
func (f *faults) FailNext(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failNext = n
}

func (f *faults) shouldFail() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNext > 0 {
		f.failNext--
		return true
	}
	return f.failing
}

// checkContext reports a cancelled request as a generic failure.
func checkContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrGeneric, err)
	}
	return nil
}
