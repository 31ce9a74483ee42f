package cart

import (
	"context"
	"sync"
	"time"
)

// Registry keeps one open Ledger per customer session so the stale notice
// survives between requests until it is dismissed.
type Registry struct {
	storage Storage
	opts    []Option

	mu       sync.Mutex
	ledgers  map[string]*Ledger
	lastUsed map[string]time.Time
}

func NewRegistry(storage Storage, opts ...Option) *Registry {
	return &Registry{
		storage:  storage,
		opts:     opts,
		ledgers:  make(map[string]*Ledger),
		lastUsed: make(map[string]time.Time),
	}
}

// Get returns the session's ledger, opening it from storage on first use.
// A cached ledger is refreshed from storage and expires 24h after its last
// write regardless of how often it is read.
func (r *Registry) Get(ctx context.Context, session string) *Ledger {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.ledgers[session]
	if ok {
		l.refresh(ctx)
	} else {
		l = Open(ctx, r.storage, session, r.opts...)
		r.ledgers[session] = l
	}
	r.lastUsed[session] = l.now()
	return l
}

// Sweep forgets ledgers whose last write is older than ExpiryWindow, or
// that were never written and have been idle that long. Their snapshots
// stay in storage; the next Get reopens them and applies expiry.
func (r *Registry) Sweep(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for session, l := range r.ledgers {
		since := l.LastWrite()
		if since.IsZero() {
			since = r.lastUsed[session]
		}
		if now.Sub(since) > ExpiryWindow {
			delete(r.ledgers, session)
			delete(r.lastUsed, session)
			n++
		}
	}
	return n
}
