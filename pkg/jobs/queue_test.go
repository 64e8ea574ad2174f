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

func TestEnqueueBeforeStartFails(t *testing.T) {
	q := NewQueue("notify", func(context.Context, Job) error { return nil }, QueueConfig{})

	err := q.Enqueue(Job{ID: "1"})

	assert.Error(t, err)
}

func TestQueueProcessesJobs(t *testing.T) {
	done := make(chan Job, 1)
	q := NewQueue("notify", func(_ context.Context, j Job) error {
		done <- j
		return nil
	}, QueueConfig{Workers: 2})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "msg-1", Type: "contact", Payload: "hello"}))

	select {
	case j := <-done:
		assert.Equal(t, "msg-1", j.ID)
		assert.False(t, j.Enqueued.IsZero())
	case <-time.After(2 * time.Second):
		t.Fatal("job was not processed")
	}
}

func TestQueueRetriesFailedJobs(t *testing.T) {
	var calls int32
	done := make(chan struct{})
	q := NewQueue("notify", func(context.Context, Job) error {
		if atomic.AddInt32(&calls, 1) < 3 {
			return errors.New("smtp down")
		}
		close(done)
		return nil
	}, QueueConfig{MaxRetries: 3, RetryDelay: 5 * time.Millisecond})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "msg-2"}))

	select {
	case <-done:
		assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	case <-time.After(2 * time.Second):
		t.Fatal("job was not retried")
	}
}

func TestQueueRecoversFromPanic(t *testing.T) {
	var calls int32
	done := make(chan struct{})
	q := NewQueue("notify", func(context.Context, Job) error {
		if atomic.AddInt32(&calls, 1) == 1 {
			panic("bad payload")
		}
		close(done)
		return nil
	}, QueueConfig{MaxRetries: 1, RetryDelay: 5 * time.Millisecond})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "msg-3"}))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("panicking job was not retried")
	}
}
