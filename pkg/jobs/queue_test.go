package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueDeliversInOrder(t *testing.T) {
	var mu sync.Mutex
	var got []interface{}
	done := make(chan struct{})

	q := NewQueue("test", func(_ context.Context, job Job) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, job.Payload)
		if len(got) == 3 {
			close(done)
		}
		return nil
	}, QueueConfig{})
	q.Start(context.Background())
	defer q.Stop()

	for i := 1; i <= 3; i++ {
		require.True(t, q.Offer(Job{Type: "n", Payload: i}))
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("jobs were not delivered")
	}
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []interface{}{1, 2, 3}, got)
}

func TestQueueOfferBeforeStartDrops(t *testing.T) {
	q := NewQueue("idle", func(context.Context, Job) error { return nil }, QueueConfig{})
	assert.False(t, q.Offer(Job{Type: "n"}))
	assert.Equal(t, uint64(1), q.Dropped())
}

func TestQueueOfferNeverBlocksWhenFull(t *testing.T) {
	release := make(chan struct{})
	q := NewQueue("slow", func(ctx context.Context, _ Job) error {
		select {
		case <-release:
		case <-ctx.Done():
		}
		return nil
	}, QueueConfig{Workers: 1, BufferSize: 1})
	q.Start(context.Background())
	defer q.Stop()
	defer close(release)

	accepted := 0
	for i := 0; i < 10; i++ {
		if q.Offer(Job{Type: "n"}) {
			accepted++
		}
	}
	assert.LessOrEqual(t, accepted, 2)
	assert.GreaterOrEqual(t, q.Dropped(), uint64(8))
}

func TestQueueRetriesFailedJobs(t *testing.T) {
	var mu sync.Mutex
	attempts := 0
	done := make(chan struct{})

	q := NewQueue("flaky", func(context.Context, Job) error {
		mu.Lock()
		defer mu.Unlock()
		attempts++
		if attempts < 3 {
			return errors.New("connection refused")
		}
		close(done)
		return nil
	}, QueueConfig{MaxRetries: 3, RetryDelay: time.Millisecond})
	q.Start(context.Background())
	defer q.Stop()

	require.True(t, q.Offer(Job{Type: "n"}))
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job was not retried")
	}
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 3, attempts)
}
