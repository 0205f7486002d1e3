package jobqueue

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestRun_EmptyQueueIsNoop(t *testing.T) {
	q := New()
	q.Run()
	assert.Equal(t, 0, q.Len())
	assert.False(t, q.Suspended())
}

func TestRun_SyncJobsRunInOrder(t *testing.T) {
	var got []string
	New().
		Then(func() { got = append(got, "a") }).
		Then(func() { got = append(got, "b") }).
		Then(func() { got = append(got, "c") }).
		Run()
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestRun_AsyncJobSuspendsUntilDone(t *testing.T) {
	var got []string
	var fireX func()

	q := New().
		Then(func() { got = append(got, "A") }).
		ThenAsync(func(done func()) {
			got = append(got, "B")
			fireX = done
		}).
		Then(func() { got = append(got, "C") })
	q.Run()

	assert.Equal(t, []string{"A", "B"}, got, "C must wait for B")
	assert.True(t, q.Suspended())
	assert.Equal(t, 1, q.Len())

	require.NotNil(t, fireX)
	fireX()
	assert.Equal(t, []string{"A", "B", "C"}, got)
	assert.False(t, q.Suspended())

	fireX()
	assert.Equal(t, []string{"A", "B", "C"}, got, "second done must not rerun anything")
}

func TestRun_AsyncJobCompletingInlineContinues(t *testing.T) {
	var got []int
	New().
		ThenAsync(func(done func()) { got = append(got, 1); done() }).
		ThenAsync(func(done func()) { got = append(got, 2); done() }).
		Then(func() { got = append(got, 3) }).
		Run()
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestRun_LaterSubmissionsDoNotOvertakePendingAsync(t *testing.T) {
	var got []string
	var done func()

	q := New()
	q.ThenAsync(func(d func()) { got = append(got, "first"); done = d }).Run()

	q.Then(func() { got = append(got, "second") }).Run()
	assert.Equal(t, []string{"first"}, got)

	done()
	assert.Equal(t, []string{"first", "second"}, got)
}

func TestRun_ReentrantRunContinuesFromCurrentPosition(t *testing.T) {
	var got []string
	q := New()
	q.Then(func() {
		got = append(got, "outer")
		q.Then(func() { got = append(got, "appended") })
		q.Run()
	}).Then(func() { got = append(got, "next") })
	q.Run()

	assert.Equal(t, []string{"outer", "next", "appended"}, got)
}

func TestRun_AsyncJobThatNeverCallsDoneLeavesQueueSuspended(t *testing.T) {
	ran := false
	q := New().
		ThenAsync(func(func()) {}).
		Then(func() { ran = true })
	q.Run()
	q.Run()

	assert.False(t, ran)
	assert.True(t, q.Suspended())
}

func TestRun_DoneFromAnotherGoroutine(t *testing.T) {
	var mu sync.Mutex
	var got []string
	record := func(s string) {
		mu.Lock()
		got = append(got, s)
		mu.Unlock()
	}

	finished := make(chan struct{})
	New().
		ThenAsync(func(done func()) {
			record("async")
			go done()
		}).
		Then(func() {
			record("after")
			close(finished)
		}).
		Run()

	<-finished
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"async", "after"}, got)
}

func TestEnqueue_NilJobIgnored(t *testing.T) {
	q := New().Enqueue(nil)
	assert.Equal(t, 0, q.Len())
}
