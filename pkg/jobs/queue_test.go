package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueProcessesJobs(t *testing.T) {
	done := make(chan string, 1)
	q := NewQueue("push", func(_ context.Context, job Job) error {
		done <- job.ID
		return nil
	}, QueueConfig{Workers: 1})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "n-1", Type: "push"}))
	select {
	case id := <-done:
		assert.Equal(t, "n-1", id)
	case <-time.After(time.Second):
		t.Fatal("job was not processed")
	}
}

func TestQueueWithoutRetriesRunsOnce(t *testing.T) {
	var calls int32
	q := NewQueue("push", func(context.Context, Job) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("redis down")
	}, QueueConfig{Workers: 1, MaxRetries: 0, RetryDelay: 10 * time.Millisecond})
	q.Start(context.Background())

	require.NoError(t, q.Enqueue(Job{ID: "n-1"}))
	time.Sleep(100 * time.Millisecond)
	q.Stop()
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestQueueRejectsBeforeStart(t *testing.T) {
	q := NewQueue("push", func(context.Context, Job) error { return nil }, QueueConfig{})
	assert.Error(t, q.Enqueue(Job{ID: "n-1"}))
	assert.Error(t, q.TryEnqueue(Job{ID: "n-1"}))
}

func TestTryEnqueueReportsFullBuffer(t *testing.T) {
	release := make(chan struct{})
	q := NewQueue("push", func(context.Context, Job) error {
		<-release
		return nil
	}, QueueConfig{Workers: 1, BufferSize: 1})
	q.Start(context.Background())
	defer func() {
		close(release)
		q.Stop()
	}()

	var full error
	for i := 0; i < 5 && full == nil; i++ {
		full = q.TryEnqueue(Job{ID: "n"})
	}
	require.Error(t, full)
	assert.ErrorIs(t, full, ErrQueueFull)
}

func TestQueueRetriesUntilLimit(t *testing.T) {
	var calls int32
	q := NewQueue("push", func(context.Context, Job) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("redis down")
	}, QueueConfig{Workers: 1, MaxRetries: 2, RetryDelay: 5 * time.Millisecond})
	q.Start(context.Background())

	require.NoError(t, q.Enqueue(Job{ID: "n-1"}))
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 3 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	q.Stop()
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestQueuePermanentErrorSkipsRetries(t *testing.T) {
	var calls int32
	q := NewQueue("push", func(context.Context, Job) error {
		atomic.AddInt32(&calls, 1)
		return Permanent(errors.New("bad payload"))
	}, QueueConfig{Workers: 1, MaxRetries: 3, RetryDelay: 5 * time.Millisecond})
	q.Start(context.Background())

	require.NoError(t, q.Enqueue(Job{ID: "n-1"}))
	time.Sleep(100 * time.Millisecond)
	q.Stop()
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestQueueSurvivesHandlerPanic(t *testing.T) {
	done := make(chan string, 1)
	q := NewQueue("push", func(_ context.Context, job Job) error {
		if job.ID == "boom" {
			panic("nil payload")
		}
		done <- job.ID
		return nil
	}, QueueConfig{Workers: 1, MaxRetries: 3})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "boom"}))
	require.NoError(t, q.Enqueue(Job{ID: "n-2"}))
	select {
	case id := <-done:
		assert.Equal(t, "n-2", id)
	case <-time.After(time.Second):
		t.Fatal("worker did not recover from panic")
	}
}

func TestPermanentWrapping(t *testing.T) {
	cause := errors.New("bad payload")
	err := Permanent(cause)

	assert.True(t, IsPermanent(err))
	assert.ErrorIs(t, err, cause)
	assert.False(t, IsPermanent(cause))
	assert.NoError(t, Permanent(nil))
}

func TestQueueLen(t *testing.T) {
	q := NewQueue("push", func(context.Context, Job) error { return nil }, QueueConfig{BufferSize: 4})
	assert.Equal(t, 0, q.Len())
}
