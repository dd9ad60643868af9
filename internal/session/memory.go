package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps sessions in process. Suitable for a single instance and tests.
type MemoryStore struct {
	mu  sync.RWMutex
	ttl time.Duration
	m   map[string]entry
	now func() time.Time
}

type entry struct {
	val Session
	exp time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &MemoryStore{
		ttl: ttl,
		m:   make(map[string]entry),
		now: time.Now,
	}
}

func (s *MemoryStore) Create(_ context.Context, sess Session) (string, error) {
	id, err := NewID()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.m[id] = entry{val: sess, exp: s.now().Add(s.ttl)}
	s.mu.Unlock()

	return id, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (Session, error) {
	now := s.now()
	s.mu.RLock()
	e, ok := s.m[id]
	s.mu.RUnlock()
	if !ok {
		return Session{}, ErrNotFound
	}

	if now.After(e.exp) {
		s.mu.Lock()
		delete(s.m, id)
		s.mu.Unlock()
		return Session{}, ErrNotFound
	}

	return e.val, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.m, id)
	s.mu.Unlock()
	return nil
}

// Sweep drops expired sessions.
func (s *MemoryStore) Sweep() int {
	now := s.now()
	removed := 0

	s.mu.Lock()
	for id, e := range s.m {
		if now.After(e.exp) {
			delete(s.m, id)
			removed++
		}
	}
	s.mu.Unlock()

	return removed
}
