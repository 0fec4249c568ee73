package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/stemsi/bonafide-backend/internal/config"
)

// RedisBroker publishes events on Redis Pub/Sub so every server instance can
// stream them to its connected students.
type RedisBroker struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewRedisBroker creates a RedisBroker.
func NewRedisBroker(rdb *redis.Client, log zerolog.Logger) *RedisBroker {
	return &RedisBroker{
		rdb: rdb,
		log: log.With().Str("component", "notify_redis").Logger(),
	}
}

// Publish sends e on the student's channel.
func (b *RedisBroker) Publish(ctx context.Context, e Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	channel := config.CacheKey.StudentRequestsChannel(e.StudentID)
	if err := b.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

// Subscribe listens on the student's channel until cancelled.
func (b *RedisBroker) Subscribe(ctx context.Context, studentID string) (<-chan Event, func(), error) {
	ps := b.rdb.Subscribe(ctx, config.CacheKey.StudentRequestsChannel(studentID))
	if _, err := ps.Receive(ctx); err != nil {
		ps.Close()
		return nil, nil, fmt.Errorf("subscribe: %w", err)
	}

	ctx, stop := context.WithCancel(ctx)
	out := make(chan Event, subscriberBuffer)

	go func() {
		defer close(out)
		defer ps.Close()

		msgs := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var e Event
				if err := json.Unmarshal([]byte(msg.Payload), &e); err != nil {
					b.log.Error().Err(err).Str("channel", msg.Channel).Msg("Unmarshal event error")
					continue
				}
				select {
				case out <- e:
				default:
					b.log.Warn().Str("student_id", studentID).Msg("Subscriber lagging, event dropped")
				}
			}
		}
	}()

	return out, stop, nil
}
