package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/stemsi/bonafide-backend/internal/config"
)

// sweepInterval bounds how often Save scans for expired slots.
const sweepInterval = time.Minute

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryStore keeps session slots in process memory.
type MemoryStore struct {
	mu        sync.Mutex
	slots     map[string]memoryEntry
	now       func() time.Time
	lastSweep time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: make(map[string]memoryEntry), now: time.Now}
}

// Save overwrites the user's slot and drops slots that expired without being
// read again.
func (s *MemoryStore) Save(_ context.Context, slot Slot, ttl time.Duration) error {
	data, err := json.Marshal(slot)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if now.Sub(s.lastSweep) >= sweepInterval {
		s.sweep(now)
	}
	s.slots[config.CacheKey.SessionKey(slot.User.ID)] = memoryEntry{data: data, expiresAt: now.Add(ttl)}
	return nil
}

// sweep must be called with s.mu held.
func (s *MemoryStore) sweep(now time.Time) {
	for key, entry := range s.slots {
		if !now.Before(entry.expiresAt) {
			delete(s.slots, key)
		}
	}
	s.lastSweep = now
}

// Load reads the user's slot. Expired slots are removed and reported as absent.
func (s *MemoryStore) Load(_ context.Context, userID string) (*Slot, error) {
	key := config.CacheKey.SessionKey(userID)

	s.mu.Lock()
	entry, ok := s.slots[key]
	if ok && !s.now().Before(entry.expiresAt) {
		delete(s.slots, key)
		ok = false
	}
	s.mu.Unlock()

	if !ok {
		return nil, ErrNoSession
	}

	var slot Slot
	if err := json.Unmarshal(entry.data, &slot); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &slot, nil
}

// Delete removes the user's slot.
func (s *MemoryStore) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.slots, config.CacheKey.SessionKey(userID))
	return nil
}
