package storage

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"
)

// watchChannel carries the key name of every Set so remote watchers see
// the same events Memory delivers in-process.
const watchChannel = "kv:events"

// Redis is a KV backed by a Redis instance; keys are namespaced with the
// given prefix so several deployments can share one instance.
type Redis struct {
	client *redis.Client
	prefix string
}

func NewRedis(client *redis.Client, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err == redis.Nil {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, r.prefix+key, value, 0).Err(); err != nil {
		return err
	}
	// A lost watch event only delays convergence; the snapshot token
	// catches it up on the next notification.
	if err := r.client.Publish(ctx, r.prefix+watchChannel, key).Err(); err != nil {
		log.Printf("redis kv: failed to publish watch event for %q: %v", key, err)
	}
	return nil
}

func (r *Redis) Watch(fn func(key string)) func() {
	sub := r.client.Subscribe(context.Background(), r.prefix+watchChannel)
	go func() {
		for msg := range sub.Channel() {
			fn(msg.Payload)
		}
	}()
	return func() {
		if err := sub.Close(); err != nil {
			log.Printf("redis kv: failed to close watch subscription: %v", err)
		}
	}
}
