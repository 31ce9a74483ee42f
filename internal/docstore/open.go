package docstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Backends accepted by Open.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Open connects the named backend, applying migrations for postgres. The
// returned function closes the store and the connection it opened.
func Open(ctx context.Context, backend, databaseURL, redisURL string) (Store, func(), error) {
	switch backend {
	case BackendMemory, "":
		m := NewMemory()
		return m, func() { m.Close() }, nil

	case BackendPostgres:
		if err := Migrate(databaseURL); err != nil {
			return nil, nil, err
		}
		pool, err := pgxpool.New(ctx, databaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("ping postgres: %w", err)
		}
		p, err := NewPostgres(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		return p, func() {
			p.Close()
			pool.Close()
		}, nil

	case BackendRedis:
		client, err := NewRedisClient(ctx, redisURL)
		if err != nil {
			return nil, nil, err
		}
		r, err := NewRedis(ctx, client)
		if err != nil {
			client.Close()
			return nil, nil, err
		}
		return r, func() {
			r.Close()
			client.Close()
		}, nil
	}
	return nil, nil, fmt.Errorf("unknown store backend %q", backend)
}

// NewRedisClient parses url and checks the server is reachable.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}
