package notify

import (
	"reservas-service/internal/models"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisBus carries reservation events over redis pub/sub, one channel per
// resource type, so every running instance sees every event.
type RedisBus struct {
	client *redis.Client
}

func NewRedisBus(redisAddr string) (*RedisBus, error) {
	const op = "notify.NewRedisBus"

	client := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &RedisBus{client: client}, nil
}

func (b *RedisBus) Publish(ctx context.Context, event Event) error {
	const op = "notify.RedisBus.Publish"

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := b.client.Publish(ctx, Channel(event.ResourceType), payload).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Subscribe returns a channel of events for the resource type. The returned
// stop function releases the subscription; the channel closes after stop or
// when ctx is done. Undecodable payloads are dropped.
func (b *RedisBus) Subscribe(ctx context.Context, rt models.ResourceType) (<-chan Event, func(), error) {
	const op = "notify.RedisBus.Subscribe"

	pubsub := b.client.Subscribe(ctx, Channel(rt))

	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	events := make(chan Event)

	go func() {
		defer close(events)

		for msg := range pubsub.Channel() {
			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				continue
			}

			select {
			case events <- event:
			case <-ctx.Done():
				return
			}
		}
	}()

	stop := func() {
		_ = pubsub.Close()
	}

	return events, stop, nil
}

func (b *RedisBus) Close() error {
	return b.client.Close()
}
