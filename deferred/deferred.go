// Package deferred provides a value that settles exactly once, later, with
// either a result or an error.
package deferred

import "sync"

// Deferred is settled by its producer with Resolve or Reject and observed by
// consumers with OnComplete. Only the first settlement counts.
type Deferred[T any] struct {
	mu        sync.Mutex
	settled   bool
	value     T
	err       error
	callbacks []func(T, error)
}

// New creates an unsettled Deferred.
func New[T any]() *Deferred[T] {
	return &Deferred[T]{}
}

// Resolved creates a Deferred already settled with value.
func Resolved[T any](value T) *Deferred[T] {
	return &Deferred[T]{settled: true, value: value}
}

// Rejected creates a Deferred already settled with err.
func Rejected[T any](err error) *Deferred[T] {
	var zero T
	return &Deferred[T]{settled: true, value: zero, err: err}
}

// Resolve settles with value. Returns false if already settled.
func (d *Deferred[T]) Resolve(value T) bool {
	return d.settle(value, nil)
}

// Reject settles with err. Returns false if already settled.
func (d *Deferred[T]) Reject(err error) bool {
	var zero T
	return d.settle(zero, err)
}

func (d *Deferred[T]) settle(value T, err error) bool {
	d.mu.Lock()
	if d.settled {
		d.mu.Unlock()
		return false
	}
	d.settled = true
	d.value = value
	d.err = err
	callbacks := d.callbacks
	d.callbacks = nil
	d.mu.Unlock()

	for _, cb := range callbacks {
		cb(value, err)
	}
	return true
}

// OnComplete registers fn to run once the Deferred settles. If it has already
// settled, fn runs immediately on the calling goroutine; otherwise it runs on
// the goroutine that settles it.
func (d *Deferred[T]) OnComplete(fn func(T, error)) {
	d.mu.Lock()
	if !d.settled {
		d.callbacks = append(d.callbacks, fn)
		d.mu.Unlock()
		return
	}
	value, err := d.value, d.err
	d.mu.Unlock()
	fn(value, err)
}

// Settled reports whether the Deferred has a result.
func (d *Deferred[T]) Settled() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.settled
}

// Result returns the settled value and error. ok is false while unsettled.
func (d *Deferred[T]) Result() (value T, err error, ok bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.value, d.err, d.settled
}

// Map derives a Deferred whose value is fn applied to d's value. Errors pass
// through unchanged.
func Map[T, U any](d *Deferred[T], fn func(T) U) *Deferred[U] {
	out := New[U]()
	d.OnComplete(func(v T, err error) {
		if err != nil {
			out.Reject(err)
			return
		}
		out.Resolve(fn(v))
	})
	return out
}
