package store

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sesmlabs/fabric/internal/domain"
)

// KnowledgeStore holds durable trust-scored entries, unique per
// normalized key. Entries never expire; Delete exists for
// administrative pruning only.
type KnowledgeStore struct {
	mu    sync.RWMutex
	byID  map[uuid.UUID]*domain.KnowledgeMemory
	byKey map[string]uuid.UUID

	initialTrust      float64
	reinforcementRate float64
}

func NewKnowledgeStore(initialTrust, reinforcementRate float64) *KnowledgeStore {
	return &KnowledgeStore{
		byID:              make(map[uuid.UUID]*domain.KnowledgeMemory),
		byKey:             make(map[string]uuid.UUID),
		initialTrust:      initialTrust,
		reinforcementRate: reinforcementRate,
	}
}

func (s *KnowledgeStore) GetByKey(key string) (*domain.KnowledgeMemory, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byKey[key]
	if !ok {
		return nil, false
	}
	cp := *s.byID[id]
	return &cp, true
}

func (s *KnowledgeStore) GetByID(id uuid.UUID) (*domain.KnowledgeMemory, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	cp := *entry
	return &cp, true
}

func (s *KnowledgeStore) CreateOrReinforce(content, key string, now time.Time) *domain.KnowledgeMemory {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.byKey[key]; ok {
		entry := s.byID[id]
		entry.Mentions++
		entry.Trust = domain.ReinforceTrust(entry.Trust, s.reinforcementRate)
		cp := *entry
		return &cp
	}

	entry := &domain.KnowledgeMemory{
		ID:            uuid.New(),
		Content:       content,
		NormalizedKey: key,
		Trust:         s.initialTrust,
		Mentions:      1,
		CreatedAt:     now,
	}
	s.byID[entry.ID] = entry
	s.byKey[key] = entry.ID

	cp := *entry
	return &cp
}

func (s *KnowledgeStore) Delete(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.byID[id]
	if !ok {
		return false
	}
	delete(s.byID, id)
	delete(s.byKey, entry.NormalizedKey)
	return true
}

func (s *KnowledgeStore) List() []domain.KnowledgeMemory {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.KnowledgeMemory, 0, len(s.byID))
	for _, entry := range s.byID {
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Len reports the number of knowledge entries held.
func (s *KnowledgeStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}
