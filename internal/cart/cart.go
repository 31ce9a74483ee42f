// Package cart implements the customer's cart ledger: an ordered list of
// configured lines with frozen unit prices, persisted per session with a
// 24 hour expiry measured from the last write.
package cart

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/flamedough/api/internal/configurator"
	"github.com/flamedough/api/internal/enum"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	// ExpiryWindow is how long a cart survives without being written.
	ExpiryWindow = 24 * time.Hour

	// DefaultDeliveryFee applies only when no settings snapshot supplies one.
	DefaultDeliveryFee int64 = 15
)

var ErrLineNotFound = errors.New("cart line not found")

// Item is a persisted cart line.
type Item struct {
	LineID string `json:"cartLineId"`
	configurator.Line
}

// Snapshot is the persisted form of a cart.
type Snapshot struct {
	Items     []Item    `json:"items"`
	Timestamp time.Time `json:"timestamp"`
}

// Storage persists cart snapshots by session key.
type Storage interface {
	Load(ctx context.Context, key string) (*Snapshot, error)
	Save(ctx context.Context, key string, snap Snapshot) error
	Remove(ctx context.Context, key string) error
}

// FeeFunc reports the delivery fee from the active settings snapshot.
// ok=false means no settings are published yet.
type FeeFunc func() (fee int64, ok bool)

// Ledger is one session's cart. Safe for concurrent use.
type Ledger struct {
	mu      sync.Mutex
	key     string
	storage Storage
	fee     FeeFunc
	now     func() time.Time
	newID   func() string

	items     []Item
	lastWrite time.Time
	stale     bool
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithDeliveryFee makes the settings-derived fee the source of truth.
func WithDeliveryFee(fn FeeFunc) Option {
	return func(l *Ledger) { l.fee = fn }
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// Open loads the cart stored under key. A snapshot older than ExpiryWindow
// is discarded and the stale notice is raised. Storage errors are logged
// and yield an empty cart.
func Open(ctx context.Context, storage Storage, key string, opts ...Option) *Ledger {
	l := &Ledger{
		key:     key,
		storage: storage,
		now:     time.Now,
		newID:   func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(l)
	}

	snap, err := storage.Load(ctx, key)
	if err != nil {
		log.Error().Err(err).Str("session", key).Msg("load cart")
		return l
	}
	if snap == nil {
		return l
	}
	if l.now().Sub(snap.Timestamp) > ExpiryWindow {
		if err := storage.Remove(ctx, key); err != nil {
			log.Error().Err(err).Str("session", key).Msg("remove stale cart")
		}
		l.stale = true
		return l
	}
	l.items = snap.Items
	l.lastWrite = snap.Timestamp
	return l
}

// refresh adopts a newer snapshot written by another instance, then expires
// the cart once its last write is older than ExpiryWindow.
func (l *Ledger) refresh(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	snap, err := l.storage.Load(ctx, l.key)
	if err != nil {
		log.Error().Err(err).Str("session", l.key).Msg("load cart")
	} else if snap != nil && snap.Timestamp.After(l.lastWrite) {
		l.items = snap.Items
		l.lastWrite = snap.Timestamp
	}

	if l.lastWrite.IsZero() || l.now().Sub(l.lastWrite) <= ExpiryWindow {
		return
	}
	if err := l.storage.Remove(ctx, l.key); err != nil {
		log.Error().Err(err).Str("session", l.key).Msg("remove stale cart")
	}
	if len(l.items) > 0 {
		l.stale = true
	}
	l.items = nil
	l.lastWrite = time.Time{}
}

// LastWrite is when the cart was last persisted, zero if never.
func (l *Ledger) LastWrite() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastWrite
}

// Add appends line under a fresh cartLineId.
func (l *Ledger) Add(ctx context.Context, line configurator.Line) Item {
	l.mu.Lock()
	defer l.mu.Unlock()

	item := Item{LineID: l.newID(), Line: line}
	l.items = append(l.items, item)
	l.persist(ctx)
	return item
}

// UpdateQuantity sets a line's quantity. Zero or less removes the line.
// Unit price is untouched.
func (l *Ledger) UpdateQuantity(ctx context.Context, lineID string, quantity int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.indexOf(lineID)
	if idx < 0 {
		return ErrLineNotFound
	}
	if quantity <= 0 {
		l.items = append(l.items[:idx:idx], l.items[idx+1:]...)
	} else {
		l.items[idx].Quantity = quantity
	}
	l.persist(ctx)
	return nil
}

// Remove drops a line.
func (l *Ledger) Remove(ctx context.Context, lineID string) error {
	return l.UpdateQuantity(ctx, lineID, 0)
}

// Clear empties the cart.
func (l *Ledger) Clear(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.items = nil
	l.persist(ctx)
}

// Items returns a copy of the lines in insertion order.
func (l *Ledger) Items() []Item {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Item, len(l.items))
	copy(out, l.items)
	return out
}

func (l *Ledger) Subtotal() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	var sum int64
	for _, it := range l.items {
		sum += it.UnitPrice * int64(it.Quantity)
	}
	return sum
}

// DeliveryFee is the settings fee (or DefaultDeliveryFee) for delivery, zero for pickup.
func (l *Ledger) DeliveryFee(mode enum.OrderMode) int64 {
	if mode != enum.OrderModeDelivery {
		return 0
	}
	if l.fee != nil {
		if fee, ok := l.fee(); ok {
			return fee
		}
	}
	return DefaultDeliveryFee
}

func (l *Ledger) Total(mode enum.OrderMode) int64 {
	return l.Subtotal() + l.DeliveryFee(mode)
}

// ItemCount is the number of units across all lines.
func (l *Ledger) ItemCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0
	for _, it := range l.items {
		n += it.Quantity
	}
	return n
}

// LineCount is the number of distinct lines.
func (l *Ledger) LineCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// StaleNotice reports whether an expired cart was discarded and the notice
// has not been dismissed.
func (l *Ledger) StaleNotice() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stale
}

// DismissStaleNotice clears the notice. It re-arms only on a later expiry.
func (l *Ledger) DismissStaleNotice() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stale = false
}

func (l *Ledger) indexOf(lineID string) int {
	for i, it := range l.items {
		if it.LineID == lineID {
			return i
		}
	}
	return -1
}

// persist writes the full snapshot. Callers hold l.mu.
func (l *Ledger) persist(ctx context.Context) {
	items := make([]Item, len(l.items))
	copy(items, l.items)
	snap := Snapshot{Items: items, Timestamp: l.now()}
	l.lastWrite = snap.Timestamp
	if err := l.storage.Save(ctx, l.key, snap); err != nil {
		log.Error().Err(err).Str("session", l.key).Msg("persist cart")
	}
}
