package service

import (
	"time"

	"github.com/sesmlabs/fabric/internal/domain"
	"go.uber.org/zap"
)

// DefaultPromotionWindow bounds how long after an episodic entry's
// creation a repeat sighting may still reinforce knowledge.
const DefaultPromotionWindow = 120 * time.Second

// PromotionEngine decides, on every episodic write, whether the event
// also creates or reinforces a knowledge entry. The trigger is a
// repeat write of the same normalized content while the prior episodic
// entry is still alive, and within the promotion window measured from
// that entry's creation. The knowledge transition is one-way:
// ABSENT -> CREATED -> REINFORCED*.
type PromotionEngine struct {
	knowledge domain.KnowledgeStore
	window    time.Duration
	logger    *zap.Logger
}

// NewPromotionEngine builds an engine writing into ks. A window <= 0
// falls back to DefaultPromotionWindow.
func NewPromotionEngine(ks domain.KnowledgeStore, window time.Duration, logger *zap.Logger) *PromotionEngine {
	if window <= 0 {
		window = DefaultPromotionWindow
	}
	return &PromotionEngine{knowledge: ks, window: window, logger: logger}
}

// Evaluate inspects the outcome of an episodic upsert. It must run
// inside the fabric's write critical section; the engine holds no
// state between calls.
func (e *PromotionEngine) Evaluate(entry *domain.EpisodicMemory, refreshed bool, now time.Time) (*domain.KnowledgeMemory, bool) {
	if !refreshed {
		// First sighting, or the prior sighting already expired.
		return nil, false
	}
	if now.Sub(entry.CreatedAt) > e.window {
		return nil, false
	}

	know := e.knowledge.CreateOrReinforce(entry.Content, entry.NormalizedKey, now)
	e.logger.Debug("knowledge reinforced",
		zap.String("knowledge_id", know.ID.String()),
		zap.Int("mentions", know.Mentions),
		zap.Float64("trust", know.Trust))
	return know, true
}
