package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sesmlabs/fabric/internal/domain"
)

var ErrInvalidTTL = errors.New("ttl must be positive")

// EpisodicStore is an in-memory TTL store. Expired entries linger until
// the next sweep but are invisible to every read and lookup. All
// methods are safe for concurrent use; cross-store atomicity for the
// write path is the fabric service's responsibility.
type EpisodicStore struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]*domain.EpisodicMemory
	// byKey tracks the most recent entry per normalized key. A mapping
	// may point at an expired entry until a sweep or a replacing insert.
	byKey map[string]uuid.UUID
}

func NewEpisodicStore() *EpisodicStore {
	return &EpisodicStore{
		byID:  make(map[uuid.UUID]*domain.EpisodicMemory),
		byKey: make(map[string]uuid.UUID),
	}
}

func (s *EpisodicStore) InsertOrRefresh(content, key string, ttl time.Duration, now time.Time) (*domain.EpisodicMemory, bool, error) {
	if ttl <= 0 {
		return nil, false, ErrInvalidTTL
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing := s.aliveByKey(key, now); existing != nil {
		existing.Mentions++
		existing.ExpiresAt = now.Add(ttl)
		cp := *existing
		return &cp, true, nil
	}

	entry := &domain.EpisodicMemory{
		ID:            uuid.New(),
		Content:       content,
		NormalizedKey: key,
		Mentions:      1,
		CreatedAt:     now,
		ExpiresAt:     now.Add(ttl),
	}
	s.byID[entry.ID] = entry
	s.byKey[key] = entry.ID

	cp := *entry
	return &cp, false, nil
}

func (s *EpisodicStore) FindAliveByKey(key string, now time.Time) (*domain.EpisodicMemory, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry := s.aliveByKey(key, now)
	if entry == nil {
		return nil, false
	}
	cp := *entry
	return &cp, true
}

func (s *EpisodicStore) ListAlive(now time.Time) []domain.EpisodicMemory {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked(now)

	out := make([]domain.EpisodicMemory, 0, len(s.byID))
	for _, entry := range s.byID {
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (s *EpisodicStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweepLocked(now)
}

// Len reports the number of entries held, expired or not.
func (s *EpisodicStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

func (s *EpisodicStore) aliveByKey(key string, now time.Time) *domain.EpisodicMemory {
	id, ok := s.byKey[key]
	if !ok {
		return nil
	}
	entry, ok := s.byID[id]
	if !ok || !entry.Alive(now) {
		return nil
	}
	return entry
}

func (s *EpisodicStore) sweepLocked(now time.Time) int {
	removed := 0
	for id, entry := range s.byID {
		if entry.Alive(now) {
			continue
		}
		delete(s.byID, id)
		if s.byKey[entry.NormalizedKey] == id {
			delete(s.byKey, entry.NormalizedKey)
		}
		removed++
	}
	return removed
}
