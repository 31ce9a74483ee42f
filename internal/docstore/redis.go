package docstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	redisKeyPrefix = "doc:"
	maxTxRetries   = 5
)

// Redis stores each document under "doc:<path>". Update uses optimistic
// WATCH/MULTI transactions; changes are announced on a pub/sub channel.
type Redis struct {
	client *redis.Client
	pubsub *redis.PubSub
	done   chan struct{}
	notifier
}

// NewRedis subscribes to the change channel and starts the fan-out loop.
func NewRedis(ctx context.Context, client *redis.Client) (*Redis, error) {
	ps := client.Subscribe(ctx, notifyChannel)
	if _, err := ps.Receive(ctx); err != nil {
		ps.Close()
		return nil, fmt.Errorf("subscribe %s: %w", notifyChannel, err)
	}

	r := &Redis{client: client, pubsub: ps, done: make(chan struct{})}
	go r.listen()
	return r, nil
}

func (r *Redis) listen() {
	defer close(r.done)
	for msg := range r.pubsub.Channel() {
		r.notify(msg.Payload)
	}
}

func (r *Redis) key(path string) string {
	return redisKeyPrefix + path
}

func (r *Redis) publish(ctx context.Context, path string) {
	if err := r.client.Publish(ctx, notifyChannel, path).Err(); err != nil {
		log.Error().Err(err).Str("path", path).Msg("publish docstore change")
	}
}

func (r *Redis) Read(ctx context.Context, path string) ([]byte, bool, error) {
	v, err := r.client.Get(ctx, r.key(path)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", path, err)
	}
	return v, true, nil
}

func (r *Redis) Write(ctx context.Context, path string, value []byte) error {
	if err := r.client.Set(ctx, r.key(path), value, 0).Err(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	r.publish(ctx, path)
	return nil
}

func (r *Redis) Update(ctx context.Context, path string, fn UpdateFunc) ([]byte, error) {
	key := r.key(path)
	var result []byte
	changed := false

	txf := func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, key).Bytes()
		exists := true
		if errors.Is(err, redis.Nil) {
			exists, cur = false, nil
		} else if err != nil {
			return err
		}

		next, err := fn(cur, exists)
		if errors.Is(err, ErrNoChange) {
			result, changed = cur, false
			return nil
		}
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, next, 0)
			return nil
		})
		if err == nil {
			result, changed = next, true
		}
		return err
	}

	// Retry on concurrent modification of the watched key.
	for attempt := 0; attempt < maxTxRetries; attempt++ {
		err := r.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("update %s: %w", path, err)
		}
		if changed {
			r.publish(ctx, path)
		}
		return result, nil
	}
	return nil, fmt.Errorf("update %s: too much contention", path)
}

func (r *Redis) Increment(ctx context.Context, path string) (int64, error) {
	n, err := r.client.Incr(ctx, r.key(path)).Result()
	if err != nil {
		return 0, fmt.Errorf("increment %s: %w", path, err)
	}
	r.publish(ctx, path)
	return n, nil
}

func (r *Redis) List(ctx context.Context, prefix string) (map[string][]byte, error) {
	var keys []string
	iter := r.client.Scan(ctx, 0, r.key(prefix)+"/*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", prefix, err)
	}

	out := make(map[string][]byte, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	vals, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("mget %s: %w", prefix, err)
	}
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		out[strings.TrimPrefix(keys[i], redisKeyPrefix)] = []byte(s)
	}
	return out, nil
}

func (r *Redis) Subscribe(path string, fn func(string)) func() {
	return r.subscribe(path, fn)
}

// Close stops the fan-out loop. The client is owned by the caller.
func (r *Redis) Close() error {
	err := r.pubsub.Close()
	<-r.done
	return err
}
