package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sesmlabs/fabric/internal/domain"
	"go.uber.org/zap"
)

var (
	ErrContentEmpty      = errors.New("content is required")
	ErrInvalidTTL        = errors.New("ttl_seconds must not be negative")
	ErrKnowledgeNotFound = errors.New("knowledge memory not found")
)

const (
	DefaultTTL = 60 * time.Second
	MinTTL     = 5 * time.Second
	MaxTTL     = 600 * time.Second
)

// FabricConfig bounds the TTL accepted on writes. Zero fields fall
// back to the package defaults.
type FabricConfig struct {
	DefaultTTL time.Duration
	MinTTL     time.Duration
	MaxTTL     time.Duration
}

func (c FabricConfig) withDefaults() FabricConfig {
	if c.DefaultTTL <= 0 {
		c.DefaultTTL = DefaultTTL
	}
	if c.MinTTL <= 0 {
		c.MinTTL = MinTTL
	}
	if c.MaxTTL <= 0 {
		c.MaxTTL = MaxTTL
	}
	return c
}

// FabricService is the single entry point to the memory fabric. It
// exclusively owns both stores; every mutation flows through Write,
// which runs the episodic upsert and the promotion decision under one
// mutex so concurrent same-key writers serialize and mention counts
// are never lost to a race.
type FabricService struct {
	mu        sync.Mutex
	episodic  domain.EpisodicStore
	knowledge domain.KnowledgeStore
	promoter  *PromotionEngine
	clock     domain.Clock
	cfg       FabricConfig
	logger    *zap.Logger
}

func NewFabricService(es domain.EpisodicStore, ks domain.KnowledgeStore, pe *PromotionEngine, clock domain.Clock, cfg FabricConfig, logger *zap.Logger) *FabricService {
	return &FabricService{
		episodic:  es,
		knowledge: ks,
		promoter:  pe,
		clock:     clock,
		cfg:       cfg.withDefaults(),
		logger:    logger,
	}
}

// WriteResult reports what a single write touched.
type WriteResult struct {
	Episodic  *domain.EpisodicMemory
	Knowledge *domain.KnowledgeMemory
	Refreshed bool
	Promoted  bool
}

// Write validates and records one event. Content must be non-empty
// after trimming. A negative TTL is rejected; zero means "use the
// default"; anything else is clamped into the configured bound.
func (s *FabricService) Write(ctx context.Context, content string, ttlSeconds int) (*WriteResult, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrContentEmpty
	}
	if ttlSeconds < 0 {
		return nil, ErrInvalidTTL
	}

	ttl := s.clampTTL(ttlSeconds)
	key := domain.NormalizeKey(content)
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, refreshed, err := s.episodic.InsertOrRefresh(content, key, ttl, now)
	if err != nil {
		// Clamping keeps the TTL positive; reaching this is a bug.
		s.logger.Error("episodic insert failed",
			zap.String("key", key),
			zap.Duration("ttl", ttl),
			zap.Error(err))
		return nil, err
	}

	result := &WriteResult{Episodic: entry, Refreshed: refreshed}
	if know, promoted := s.promoter.Evaluate(entry, refreshed, now); promoted {
		result.Knowledge = know
		result.Promoted = true
	}
	return result, nil
}

// ReadEpisodic returns a sweep-applied snapshot of alive episodic
// entries, most-recently-created first.
func (s *FabricService) ReadEpisodic(ctx context.Context) []domain.EpisodicMemory {
	return s.episodic.ListAlive(s.clock.Now())
}

// ReadKnowledge returns all knowledge entries, most-recently-created
// first.
func (s *FabricService) ReadKnowledge(ctx context.Context) []domain.KnowledgeMemory {
	return s.knowledge.List()
}

// ReadAll merges both collections into the uniform item shape,
// most-recently-created first.
func (s *FabricService) ReadAll(ctx context.Context) []domain.Item {
	episodic := s.ReadEpisodic(ctx)
	knowledge := s.ReadKnowledge(ctx)

	items := make([]domain.Item, 0, len(episodic)+len(knowledge))
	for i := range episodic {
		items = append(items, episodic[i].Item())
	}
	for i := range knowledge {
		items = append(items, knowledge[i].Item())
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items
}

// GetKnowledge looks up a single knowledge entry by id.
func (s *FabricService) GetKnowledge(ctx context.Context, id uuid.UUID) (*domain.KnowledgeMemory, error) {
	entry, ok := s.knowledge.GetByID(id)
	if !ok {
		return nil, ErrKnowledgeNotFound
	}
	return entry, nil
}

// DeleteKnowledge removes a knowledge entry. This is the
// administrative escape hatch; the fabric itself never evicts
// knowledge.
func (s *FabricService) DeleteKnowledge(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.knowledge.Delete(id) {
		return ErrKnowledgeNotFound
	}
	return nil
}

func (s *FabricService) clampTTL(ttlSeconds int) time.Duration {
	if ttlSeconds == 0 {
		return s.cfg.DefaultTTL
	}
	ttl := time.Duration(ttlSeconds) * time.Second
	if ttl < s.cfg.MinTTL {
		return s.cfg.MinTTL
	}
	if ttl > s.cfg.MaxTTL {
		return s.cfg.MaxTTL
	}
	return ttl
}
