package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// EventTTL outlives the gateway's redelivery window.
const EventTTL = 72 * time.Hour

// EventRepository remembers which webhook events were already handled.
type EventRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewEventRepository(client *redis.Client) *EventRepository {
	return &EventRepository{
		client: client,
		ttl:    EventTTL,
	}
}

// MarkProcessed claims the event. It returns false when another delivery claimed it first.
func (r *EventRepository) MarkProcessed(ctx context.Context, eventID string) (bool, error) {
	// key format: "webhook:event:{event_id}"
	key := fmt.Sprintf("webhook:event:%s", eventID)

	claimed, err := r.client.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339), r.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim webhook event in Redis: %w", err)
	}

	return claimed, nil
}

// Release drops the claim so a redelivery is processed again.
func (r *EventRepository) Release(ctx context.Context, eventID string) error {
	key := fmt.Sprintf("webhook:event:%s", eventID)

	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to release webhook event: %w", err)
	}

	return nil
}
