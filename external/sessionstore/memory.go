package sessionstore

import (
	"context"
	"sync"
	"time"

	"github.com/foxseedlab/raidtracker/internal/session"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryStore keeps encoded sessions in process. It is used when no Redis
// URL is configured and in tests.
type MemoryStore struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]memoryEntry
}

func NewMemoryStore(ttl time.Duration, now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{
		ttl:     ttl,
		now:     now,
		entries: make(map[string]memoryEntry),
	}
}

func (s *MemoryStore) Create(_ context.Context, sess session.Session) error {
	b, err := session.Encode(sess)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked()
	s.entries[sess.ID()] = memoryEntry{data: b, expiresAt: s.now().Add(s.ttl)}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (session.Session, error) {
	b, ok := s.load(id)
	if !ok {
		return nil, session.ErrNotFound
	}
	return session.Decode(b)
}

func (s *MemoryStore) Update(_ context.Context, sess session.Session) error {
	b, err := session.Encode(sess)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.liveLocked(sess.ID()); !ok {
		return session.ErrNotFound
	}
	s.entries[sess.ID()] = memoryEntry{data: b, expiresAt: s.now().Add(s.ttl)}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}

// Raw returns the stored bytes of a live session.
func (s *MemoryStore) Raw(id string) ([]byte, bool) {
	return s.load(id)
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id := range s.entries {
		if _, ok := s.liveLocked(id); ok {
			n++
		}
	}
	return n
}

func (s *MemoryStore) load(id string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.liveLocked(id)
	if !ok {
		return nil, false
	}
	return e.data, true
}

// pruneLocked drops abandoned sessions so the map only holds live ones.
func (s *MemoryStore) pruneLocked() {
	now := s.now()
	for id, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, id)
		}
	}
}

func (s *MemoryStore) liveLocked(id string) (memoryEntry, bool) {
	e, ok := s.entries[id]
	if !ok {
		return memoryEntry{}, false
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.entries, id)
		return memoryEntry{}, false
	}
	return e, true
}
