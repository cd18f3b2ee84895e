package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wpinrui/tp/internal/models"
)

type recordingPublisher struct {
	mu      sync.Mutex
	changes []models.ViewChange
	err     error
	seen    chan struct{}
}

func (p *recordingPublisher) Publish(_ context.Context, change models.ViewChange) error {
	p.mu.Lock()
	p.changes = append(p.changes, change)
	p.mu.Unlock()
	p.seen <- struct{}{}
	return p.err
}

func TestViewNotifierStreams(t *testing.T) {
	metrics := NewMetricsService()
	n := NewViewNotifier(nil, metrics, nil)

	ch, cancel := n.Stream()
	assert.Equal(t, int64(1), metrics.Snapshot().ViewSubscribers)

	n.Notify(models.ViewChange{Kind: models.ViewChangeStudents, Reason: "student.add"})
	select {
	case got := <-ch:
		assert.Equal(t, models.ViewChangeStudents, got.Kind)
	case <-time.After(time.Second):
		t.Fatal("no change delivered")
	}

	cancel()
	cancel()
	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, int64(0), metrics.Snapshot().ViewSubscribers)
}

func TestViewNotifierNeverBlocksOnSlowStream(t *testing.T) {
	n := NewViewNotifier(nil, nil, nil)
	ch, cancel := n.Stream()
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < streamBuffer*4; i++ {
			n.Notify(models.ViewChange{Kind: models.ViewChangeLessons})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("notify blocked on a full stream")
	}
	assert.Len(t, ch, streamBuffer)
}

func TestViewNotifierPublishes(t *testing.T) {
	publisher := &recordingPublisher{seen: make(chan struct{}, 4)}
	n := NewViewNotifier(publisher, nil, nil)
	n.Start(context.Background())
	defer n.Stop()

	n.Notify(models.ViewChange{Kind: models.ViewChangeReset, Reason: "load"})
	select {
	case <-publisher.seen:
	case <-time.After(2 * time.Second):
		t.Fatal("change was not published")
	}

	publisher.mu.Lock()
	defer publisher.mu.Unlock()
	require.Len(t, publisher.changes, 1)
	assert.Equal(t, "load", publisher.changes[0].Reason)
}

func TestViewNotifierPublisherFailureIsRetried(t *testing.T) {
	publisher := &recordingPublisher{seen: make(chan struct{}, 4), err: errors.New("connection refused")}
	n := NewViewNotifier(publisher, nil, nil)
	n.Start(context.Background())
	defer n.Stop()

	n.Notify(models.ViewChange{Kind: models.ViewChangeFilters})
	for i := 0; i < 2; i++ {
		select {
		case <-publisher.seen:
		case <-time.After(2 * time.Second):
			t.Fatalf("attempt %d missing", i+1)
		}
	}
}

func TestViewNotifierStopClosesStreams(t *testing.T) {
	n := NewViewNotifier(nil, nil, nil)
	ch, cancel := n.Stream()
	n.Stop()
	_, open := <-ch
	assert.False(t, open)
	cancel()
}
