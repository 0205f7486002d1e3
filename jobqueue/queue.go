// Package jobqueue runs a list of synchronous and asynchronous jobs strictly
// one at a time, in submission order.
//
// A synchronous job runs to completion and the next job starts right away.
// An asynchronous job receives a done callback; the queue suspends until done
// is called and then resumes from the next job.
//
// Example:
//
//	jobqueue.New().
//	    Then(showSpinner).
//	    ThenAsync(func(done func()) { svc.Fetch().OnComplete(func(...) { ...; done() }) }).
//	    Then(hideSpinner).
//	    Run()
package jobqueue

import "sync"

// Job is either a Sync or an Async job.
type Job interface {
	isJob()
}

// Sync is a job with no completion signal.
type Sync func()

// Async is a job that must call done once it has finished. A job that never
// calls done leaves the queue suspended.
type Async func(done func())

func (Sync) isJob()  {}
func (Async) isJob() {}

// Queue is a FIFO of jobs. It is safe to Enqueue from several goroutines, but
// jobs themselves never run concurrently with each other.
type Queue struct {
	mu        sync.Mutex
	jobs      []Job
	draining  bool
	suspended bool
}

// New creates an empty queue.
func New() *Queue {
	return &Queue{}
}

// Enqueue appends a job and returns the queue for chaining.
func (q *Queue) Enqueue(job Job) *Queue {
	if job == nil {
		return q
	}
	q.mu.Lock()
	q.jobs = append(q.jobs, job)
	q.mu.Unlock()
	return q
}

// Then appends a synchronous job.
func (q *Queue) Then(fn func()) *Queue {
	return q.Enqueue(Sync(fn))
}

// ThenAsync appends an asynchronous job.
func (q *Queue) ThenAsync(fn func(done func())) *Queue {
	return q.Enqueue(Async(fn))
}

// Len returns the number of jobs not yet started.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.jobs)
}

// Suspended reports whether an asynchronous job is still waiting to finish.
func (q *Queue) Suspended() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.suspended
}

// Run drains the queue from its head. It returns when the queue is empty or
// an asynchronous job has suspended it. Calling Run while a drain is already
// in progress, or while suspended, is a no-op: the active drain (or the
// pending job's done) picks up newly queued jobs.
func (q *Queue) Run() {
	q.mu.Lock()
	if q.draining || q.suspended {
		q.mu.Unlock()
		return
	}
	q.draining = true
	q.mu.Unlock()

	q.drain()
}

func (q *Queue) drain() {
	for {
		q.mu.Lock()
		if len(q.jobs) == 0 {
			q.draining = false
			q.mu.Unlock()
			return
		}
		job := q.jobs[0]
		q.jobs[0] = nil
		q.jobs = q.jobs[1:]
		q.mu.Unlock()

		switch j := job.(type) {
		case Sync:
			j()
		case Async:
			q.mu.Lock()
			q.suspended = true
			q.draining = false
			q.mu.Unlock()
			j(q.resumer())
			return
		}
	}
}

// resumer returns the done callback for one async job. Only the first call
// resumes the queue.
func (q *Queue) resumer() func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			q.mu.Lock()
			q.suspended = false
			q.mu.Unlock()
			q.Run()
		})
	}
}
