package docstore

import (
	"context"
	"errors"
	"strconv"
	"sync"
)

// Memory keeps documents in process memory. Subscribers are called
// synchronously after the write, outside the store lock.
type Memory struct {
	mu   sync.Mutex
	docs map[string][]byte
	notifier
}

func NewMemory() *Memory {
	return &Memory{docs: make(map[string][]byte)}
}

func (m *Memory) Read(_ context.Context, path string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.docs[path]
	if !ok {
		return nil, false, nil
	}
	return clone(v), true, nil
}

func (m *Memory) Write(_ context.Context, path string, value []byte) error {
	m.mu.Lock()
	m.docs[path] = clone(value)
	m.mu.Unlock()

	m.notify(path)
	return nil
}

func (m *Memory) Update(_ context.Context, path string, fn UpdateFunc) ([]byte, error) {
	m.mu.Lock()
	cur, ok := m.docs[path]
	next, err := fn(clone(cur), ok)
	if errors.Is(err, ErrNoChange) {
		m.mu.Unlock()
		return clone(cur), nil
	}
	if err != nil {
		m.mu.Unlock()
		return nil, err
	}
	m.docs[path] = clone(next)
	m.mu.Unlock()

	m.notify(path)
	return next, nil
}

func (m *Memory) Increment(_ context.Context, path string) (int64, error) {
	m.mu.Lock()
	var n int64
	if cur, ok := m.docs[path]; ok {
		v, err := strconv.ParseInt(string(cur), 10, 64)
		if err != nil {
			m.mu.Unlock()
			return 0, err
		}
		n = v
	}
	n++
	m.docs[path] = []byte(strconv.FormatInt(n, 10))
	m.mu.Unlock()

	m.notify(path)
	return n, nil
}

func (m *Memory) List(_ context.Context, prefix string) (map[string][]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string][]byte)
	for p, v := range m.docs {
		if isChild(prefix, p) {
			out[p] = clone(v)
		}
	}
	return out, nil
}

func (m *Memory) Subscribe(path string, fn func(string)) func() {
	return m.subscribe(path, fn)
}

func (m *Memory) Close() error { return nil }

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
