package session

import (
	"sync"
	"time"
)

// IdleTimeout is how long a hand-off is remembered without being used.
const IdleTimeout = 24 * time.Hour

type handoff struct {
	wa       *WhatsApp
	lastSeen time.Time
}

// Store remembers the verified hand-off of each session, so the query
// parameters only need to be present on the entry request.
type Store struct {
	now func() time.Time

	mu       sync.Mutex
	handoffs map[string]*handoff
}

func NewStore() *Store {
	return &Store{now: time.Now, handoffs: make(map[string]*handoff)}
}

func (s *Store) Get(id string) *WhatsApp {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.handoffs[id]
	if !ok {
		return nil
	}
	h.lastSeen = s.now()
	return h.wa
}

func (s *Store) Put(id string, wa *WhatsApp) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handoffs[id] = &handoff{wa: wa, lastSeen: s.now()}
}

// Sweep forgets hand-offs unused for longer than IdleTimeout.
func (s *Store) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, h := range s.handoffs {
		if now.Sub(h.lastSeen) > IdleTimeout {
			delete(s.handoffs, id)
			n++
		}
	}
	return n
}
