package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/wpinrui/tp/internal/models"
	"github.com/wpinrui/tp/pkg/jobs"
)

const streamBuffer = 16

type viewPublisher interface {
	Publish(ctx context.Context, change models.ViewChange) error
}

// ViewNotifier fans view changes out to live streams and an optional external
// publisher. Notify never blocks, so it is safe to call while a command holds
// the model lock.
type ViewNotifier struct {
	mu      sync.Mutex
	streams map[int]chan models.ViewChange
	nextID  int

	queue   *jobs.Queue
	metrics *MetricsService
	logger  *zap.Logger
}

// NewViewNotifier constructs the notifier. publisher may be nil.
func NewViewNotifier(publisher viewPublisher, metrics *MetricsService, logger *zap.Logger) *ViewNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	n := &ViewNotifier{
		streams: make(map[int]chan models.ViewChange),
		metrics: metrics,
		logger:  logger,
	}
	if publisher != nil {
		n.queue = jobs.NewQueue("view-events", func(ctx context.Context, job jobs.Job) error {
			change, _ := job.Payload.(models.ViewChange)
			err := publisher.Publish(ctx, change)
			metrics.RecordEventPublish(err == nil)
			return err
		}, jobs.QueueConfig{Workers: 1, BufferSize: 64, MaxRetries: 2, Logger: logger})
	}
	return n
}

// Start begins delivery to the external publisher.
func (n *ViewNotifier) Start(ctx context.Context) {
	if n.queue != nil {
		n.queue.Start(ctx)
	}
}

// Stop halts delivery to the external publisher and closes every stream.
func (n *ViewNotifier) Stop() {
	if n.queue != nil {
		n.queue.Stop()
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	for id, ch := range n.streams {
		close(ch)
		delete(n.streams, id)
	}
}

// Notify delivers change to every stream and queues it for the publisher.
func (n *ViewNotifier) Notify(change models.ViewChange) {
	n.mu.Lock()
	for _, ch := range n.streams {
		select {
		case ch <- change:
		default:
			// a full buffer already holds a pending refresh for this stream
		}
	}
	n.mu.Unlock()

	if n.queue != nil && !n.queue.Offer(jobs.Job{Type: string(change.Kind), Payload: change}) {
		n.metrics.RecordEventPublish(false)
	}
}

// Stream registers a live listener. The returned cancel func must be called
// once the listener goes away; the channel is closed by cancel or Stop.
func (n *ViewNotifier) Stream() (<-chan models.ViewChange, func()) {
	ch := make(chan models.ViewChange, streamBuffer)

	n.mu.Lock()
	id := n.nextID
	n.nextID++
	n.streams[id] = ch
	n.mu.Unlock()
	n.metrics.AddViewSubscribers(1)

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			n.mu.Lock()
			if _, ok := n.streams[id]; ok {
				delete(n.streams, id)
				close(ch)
			}
			n.mu.Unlock()
			n.metrics.AddViewSubscribers(-1)
		})
	}
}
