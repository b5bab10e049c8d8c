package repository

import (
	"context"
	"log"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const processedKeyPrefix = "budget:processed:"

// EventMarker records which transaction events have already been applied to
// spent amounts. Redis streams redeliver unACKed messages, so the spent
// adjustment must not be applied twice for the same transaction.
type EventMarker struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewEventMarker(client *goredis.Client) *EventMarker {
	return &EventMarker{client: client, ttl: 24 * time.Hour}
}

func (m *EventMarker) IsProcessed(ctx context.Context, eventID string) bool {
	n, err := m.client.Exists(ctx, processedKeyPrefix+eventID).Result()
	if err != nil {
		log.Printf("EventMarker: exists check failed for %s: %v", eventID, err)
		return false
	}
	return n > 0
}

func (m *EventMarker) MarkProcessed(ctx context.Context, eventID string) {
	if err := m.client.Set(ctx, processedKeyPrefix+eventID, 1, m.ttl).Err(); err != nil {
		log.Printf("EventMarker: mark failed for %s: %v", eventID, err)
	}
}
