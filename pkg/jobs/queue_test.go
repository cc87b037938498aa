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

func TestQueueRunsRegisteredHandler(t *testing.T) {
	done := make(chan Job, 1)
	q := NewQueue("test", QueueConfig{Workers: 1, OnFinish: func(job Job, err error) {
		if err == nil {
			done <- job
		}
	}})
	q.Register("email", func(ctx context.Context, job Job) error { return nil })
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{Type: "email", Payload: "hello"}))

	select {
	case job := <-done:
		assert.Equal(t, "hello", job.Payload)
		assert.NotEmpty(t, job.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("job not processed")
	}
}

func TestQueueRetriesThenGivesUp(t *testing.T) {
	var calls int32
	finished := make(chan error, 1)
	q := NewQueue("test", QueueConfig{Workers: 1, MaxRetries: 2, RetryDelay: 5 * time.Millisecond, OnFinish: func(job Job, err error) {
		finished <- err
	}})
	q.Register("email", func(ctx context.Context, job Job) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("smtp down")
	})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{Type: "email"}))

	select {
	case err := <-finished:
		require.EqualError(t, err, "smtp down")
		assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	case <-time.After(2 * time.Second):
		t.Fatal("job never finished")
	}
}

func TestQueueRecoversPanics(t *testing.T) {
	finished := make(chan error, 1)
	q := NewQueue("test", QueueConfig{Workers: 1, OnFinish: func(job Job, err error) { finished <- err }})
	q.Register("boom", func(ctx context.Context, job Job) error { panic("bad payload") })
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{Type: "boom"}))
	select {
	case err := <-finished:
		require.ErrorContains(t, err, "bad payload")
	case <-time.After(2 * time.Second):
		t.Fatal("job never finished")
	}
}

func TestQueueEnqueueRejections(t *testing.T) {
	q := NewQueue("test", QueueConfig{})
	q.Register("email", func(ctx context.Context, job Job) error { return nil })
	require.Error(t, q.Enqueue(Job{Type: "email"}))

	q.Start(context.Background())
	require.Error(t, q.Enqueue(Job{Type: "unknown"}))
	q.Stop()
	require.Error(t, q.Enqueue(Job{Type: "email"}))
}

func TestQueueEnqueueFailsFastWhenFull(t *testing.T) {
	running := make(chan struct{}, 2)
	release := make(chan struct{})
	q := NewQueue("test", QueueConfig{Workers: 1, BufferSize: 1})
	q.Register("email", func(ctx context.Context, job Job) error {
		running <- struct{}{}
		<-release
		return nil
	})
	q.Start(context.Background())
	defer q.Stop()
	defer close(release)

	require.NoError(t, q.Enqueue(Job{Type: "email"}))
	<-running
	require.NoError(t, q.Enqueue(Job{Type: "email"}))

	result := make(chan error, 1)
	go func() { result <- q.Enqueue(Job{Type: "email"}) }()

	select {
	case err := <-result:
		assert.ErrorIs(t, err, ErrQueueFull)
	case <-time.After(time.Second):
		t.Fatal("enqueue blocked on a full buffer")
	}
}
