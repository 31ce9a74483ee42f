package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

const notifyChannel = "docstore"

// Postgres stores documents as JSONB rows. Writes announce the changed
// path with pg_notify; a listener goroutine fans them out to subscribers.
type Postgres struct {
	pool   *pgxpool.Pool
	cancel context.CancelFunc
	done   chan struct{}
	notifier
}

// NewPostgres starts the LISTEN loop on a dedicated pool connection.
func NewPostgres(ctx context.Context, pool *pgxpool.Pool) (*Postgres, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire listener conn: %w", err)
	}
	if _, err := conn.Exec(ctx, "LISTEN "+notifyChannel); err != nil {
		conn.Release()
		return nil, fmt.Errorf("listen: %w", err)
	}

	lctx, cancel := context.WithCancel(context.Background())
	p := &Postgres{pool: pool, cancel: cancel, done: make(chan struct{})}
	go p.listen(lctx, conn)
	return p, nil
}

func (p *Postgres) listen(ctx context.Context, conn *pgxpool.Conn) {
	defer close(p.done)
	defer conn.Release()

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Error().Err(err).Msg("docstore listener")
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}
		p.notify(n.Payload)
	}
}

func (p *Postgres) Read(ctx context.Context, path string) ([]byte, bool, error) {
	var value []byte
	err := p.pool.QueryRow(ctx, `SELECT value FROM documents WHERE path = $1`, path).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", path, err)
	}
	return value, true, nil
}

const upsertNotify = `
WITH up AS (
    INSERT INTO documents (path, value, updated_at)
    VALUES ($1, $2, now())
    ON CONFLICT (path) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
    RETURNING path
)
SELECT pg_notify('` + notifyChannel + `', path) FROM up`

func (p *Postgres) Write(ctx context.Context, path string, value []byte) error {
	if _, err := p.pool.Exec(ctx, upsertNotify, path, value); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func (p *Postgres) Update(ctx context.Context, path string, fn UpdateFunc) ([]byte, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, path); err != nil {
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}

	var cur []byte
	exists := true
	err = tx.QueryRow(ctx, `SELECT value FROM documents WHERE path = $1`, path).Scan(&cur)
	if errors.Is(err, pgx.ErrNoRows) {
		exists = false
	} else if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	next, err := fn(cur, exists)
	if errors.Is(err, ErrNoChange) {
		return cur, nil
	}
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, upsertNotify, path, next); err != nil {
		return nil, fmt.Errorf("write %s: %w", path, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return next, nil
}

func (p *Postgres) Increment(ctx context.Context, path string) (int64, error) {
	const q = `
WITH up AS (
    INSERT INTO documents (path, value, updated_at)
    VALUES ($1, '1'::jsonb, now())
    ON CONFLICT (path) DO UPDATE
        SET value = to_jsonb((documents.value #>> '{}')::bigint + 1), updated_at = now()
    RETURNING path, (value #>> '{}')::bigint AS n
), note AS (
    SELECT pg_notify('` + notifyChannel + `', path) FROM up
)
SELECT n FROM up, note`

	var n int64
	if err := p.pool.QueryRow(ctx, q, path).Scan(&n); err != nil {
		return 0, fmt.Errorf("increment %s: %w", path, err)
	}
	return n, nil
}

func (p *Postgres) List(ctx context.Context, prefix string) (map[string][]byte, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT path, value FROM documents WHERE starts_with(path, $1 || '/')`, prefix)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", prefix, err)
	}
	defer rows.Close()

	out := make(map[string][]byte)
	for rows.Next() {
		var (
			path  string
			value []byte
		)
		if err := rows.Scan(&path, &value); err != nil {
			return nil, fmt.Errorf("scan %s: %w", prefix, err)
		}
		out[path] = value
	}
	return out, rows.Err()
}

func (p *Postgres) Subscribe(path string, fn func(string)) func() {
	return p.subscribe(path, fn)
}

// Close stops the listener. The pool is owned by the caller.
func (p *Postgres) Close() error {
	p.cancel()
	<-p.done
	return nil
}
