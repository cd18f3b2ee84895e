package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wpinrui/tp/internal/models"
)

// ViewEvent is the message published for every view change.
type ViewEvent struct {
	Kind       models.ViewChangeKind `json:"kind"`
	Reason     string                `json:"reason"`
	OccurredAt time.Time             `json:"occurredAt"`
}

// ViewEventRepository publishes view changes on a Redis channel.
type ViewEventRepository struct {
	client  *redis.Client
	channel string
}

// NewViewEventRepository constructs the publisher. A nil client makes Publish a no-op.
func NewViewEventRepository(client *redis.Client, channel string) *ViewEventRepository {
	return &ViewEventRepository{client: client, channel: channel}
}

// Channel returns the channel events are published on.
func (r *ViewEventRepository) Channel() string {
	return r.channel
}

// Publish sends one change to the channel.
func (r *ViewEventRepository) Publish(ctx context.Context, change models.ViewChange) error {
	if r.client == nil {
		return nil
	}

	payload, err := json.Marshal(ViewEvent{Kind: change.Kind, Reason: change.Reason, OccurredAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("marshal view event: %w", err)
	}

	if err := r.client.Publish(ctx, r.channel, payload).Err(); err != nil {
		return fmt.Errorf("redis publish %s: %w", r.channel, err)
	}
	return nil
}
