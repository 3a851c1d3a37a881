package bus

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"
)

// Redis is a Bus over Redis pub/sub channels.
type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Publish(ctx context.Context, topic string, payload []byte) error {
	return r.client.Publish(ctx, topic, payload).Err()
}

func (r *Redis) Subscribe(topic string, h Handler) (func(), error) {
	sub := r.client.Subscribe(context.Background(), topic)
	// Force the subscription to be established before returning.
	if _, err := sub.Receive(context.Background()); err != nil {
		_ = sub.Close()
		return nil, err
	}
	go func() {
		for msg := range sub.Channel() {
			h([]byte(msg.Payload))
		}
	}()
	return func() {
		if err := sub.Close(); err != nil {
			log.Printf("redis bus: failed to close subscription on %q: %v", topic, err)
		}
	}, nil
}
