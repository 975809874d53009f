package domain

import (
	"time"

	"github.com/google/uuid"
)

// Clock supplies the current time to components that age entries.
// Production code uses SystemClock; tests inject a fixed clock.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// EpisodicStore holds short-lived entries keyed by id, each with an
// expiry. All operations take an explicit now so expiry decisions are
// deterministic under test.
type EpisodicStore interface {
	// InsertOrRefresh upserts by normalized key. If an alive entry with
	// the same key exists its mentions are incremented and its expiry
	// refreshed to now+ttl, preserving identity; the returned bool is
	// true in that case. Otherwise a fresh entry is created with
	// mentions = 1. A non-positive ttl is an invalid-argument error.
	InsertOrRefresh(content, key string, ttl time.Duration, now time.Time) (*EpisodicMemory, bool, error)
	// FindAliveByKey returns the non-expired entry for key, if any.
	FindAliveByKey(key string, now time.Time) (*EpisodicMemory, bool)
	// ListAlive sweeps, then returns all non-expired entries,
	// most-recently-created first.
	ListAlive(now time.Time) []EpisodicMemory
	// Sweep removes every entry with expires_at <= now and returns the
	// number removed. Idempotent; safe to call redundantly.
	Sweep(now time.Time) int
}

// KnowledgeStore holds durable entries, unique per normalized key.
type KnowledgeStore interface {
	GetByKey(key string) (*KnowledgeMemory, bool)
	GetByID(id uuid.UUID) (*KnowledgeMemory, bool)
	// CreateOrReinforce creates the entry for key with initial trust
	// and mentions = 1, or increments mentions and applies one trust
	// reinforcement step if it already exists.
	CreateOrReinforce(content, key string, now time.Time) *KnowledgeMemory
	// Delete removes an entry by id; administrative use only.
	Delete(id uuid.UUID) bool
	// List returns all entries, most-recently-created first.
	List() []KnowledgeMemory
}
