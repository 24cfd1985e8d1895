package session

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	data      Data
	expiresAt time.Time
}

// MemoryStore keeps sessions in process. Expired entries are dropped by Sweep.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *MemoryStore) Load(_ context.Context, sid string) (*Data, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[sid]
	if !ok || !s.now().Before(entry.expiresAt) {
		return nil, ErrNotFound
	}
	data := entry.data
	return &data, nil
}

func (s *MemoryStore) Save(_ context.Context, sid string, data *Data) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[sid] = memoryEntry{data: *data, expiresAt: s.now().Add(s.ttl)}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, sid)
	return nil
}

// Sweep removes entries expired at now and returns how many were dropped.
func (s *MemoryStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for sid, entry := range s.entries {
		if !now.Before(entry.expiresAt) {
			delete(s.entries, sid)
			removed++
		}
	}
	return removed
}
