// Package docstore is a path-addressed JSON document store with change
// subscriptions. The menu, settings, orders and order counter all live in
// one Store; the backend is chosen at startup.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrNoChange is returned by an UpdateFunc to leave the document as is.
var ErrNoChange = errors.New("no change")

// UpdateFunc receives the current value (nil when absent) and returns the
// value to store.
type UpdateFunc func(current []byte, exists bool) ([]byte, error)

// Store is the document store capability.
type Store interface {
	// Read returns the document at path. ok is false when absent.
	Read(ctx context.Context, path string) (value []byte, ok bool, err error)
	// Write replaces the document at path.
	Write(ctx context.Context, path string, value []byte) error
	// Update atomically reads, transforms and writes one path and returns
	// the stored value. When fn returns ErrNoChange the current value is
	// returned and nothing is written.
	Update(ctx context.Context, path string, fn UpdateFunc) ([]byte, error)
	// Increment atomically adds one to the counter at path and returns it.
	Increment(ctx context.Context, path string) (int64, error)
	// List returns the direct and nested children of a collection path,
	// keyed by full path.
	List(ctx context.Context, prefix string) (map[string][]byte, error)
	// Subscribe calls fn with the changed path whenever path or any of its
	// descendants changes. Delivery is asynchronous on networked backends.
	Subscribe(path string, fn func(changed string)) (unsubscribe func())
	Close() error
}

// Well-known paths.
const (
	PathMenu         = "menu"
	PathSettings     = "settings"
	PathOrders       = "orders"
	PathOrderCounter = "orderCounter"
)

// OrderPath is the document path of one order.
func OrderPath(id string) string {
	return PathOrders + "/" + id
}

// ReadJSON decodes the document at path into v.
func ReadJSON(ctx context.Context, s Store, path string, v any) (bool, error) {
	raw, ok, err := s.Read(ctx, path)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", path, err)
	}
	return true, nil
}

// WriteJSON encodes v and writes it to path.
func WriteJSON(ctx context.Context, s Store, path string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return s.Write(ctx, path, raw)
}

// covers reports whether a change at changed is visible to a subscriber of path.
func covers(path, changed string) bool {
	return changed == path || strings.HasPrefix(changed, path+"/")
}

func isChild(prefix, path string) bool {
	return strings.HasPrefix(path, prefix+"/")
}

// notifier is the observer list shared by all backends.
type notifier struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]subscription
}

type subscription struct {
	path string
	fn   func(string)
}

func (n *notifier) subscribe(path string, fn func(string)) func() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.subs == nil {
		n.subs = make(map[int]subscription)
	}
	id := n.nextID
	n.nextID++
	n.subs[id] = subscription{path: path, fn: fn}

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.subs, id)
			n.mu.Unlock()
		})
	}
}

func (n *notifier) notify(changed string) {
	n.mu.RLock()
	var fns []func(string)
	for _, s := range n.subs {
		if covers(s.path, changed) {
			fns = append(fns, s.fn)
		}
	}
	n.mu.RUnlock()

	for _, fn := range fns {
		fn(changed)
	}
}
