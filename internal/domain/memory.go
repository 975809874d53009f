package domain

import (
	"time"

	"github.com/google/uuid"
)

type MemoryType string

const (
	MemoryTypeEpisodic  MemoryType = "episodic"
	MemoryTypeKnowledge MemoryType = "knowledge"
)

// DisplayTrustPerMention scales the synthetic trust shown for episodic
// entries. Episodic memories carry no intrinsic trust; the dashboard
// renders both collections with a uniform shape, so each mention
// contributes a fixed slice, capped at 1.0.
const DisplayTrustPerMention = 0.2

// EpisodicMemory is a short-lived record of a single event occurrence.
// It is logically dead once the current time reaches ExpiresAt.
type EpisodicMemory struct {
	ID            uuid.UUID `json:"id"`
	Content       string    `json:"content"`
	NormalizedKey string    `json:"-"`
	Mentions      int       `json:"mentions"`
	CreatedAt     time.Time `json:"created_at"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// Alive reports whether the entry has not yet expired at now.
func (e *EpisodicMemory) Alive(now time.Time) bool {
	return now.Before(e.ExpiresAt)
}

// DisplayTrust derives the trust value exposed for uniform rendering.
func (e *EpisodicMemory) DisplayTrust() float64 {
	trust := DisplayTrustPerMention * float64(e.Mentions)
	if trust > 1.0 {
		return 1.0
	}
	return trust
}

// KnowledgeMemory is a durable, trust-scored record produced by
// repeated reinforcement of the same normalized content. It never
// expires; removal is an administrative operation.
type KnowledgeMemory struct {
	ID            uuid.UUID `json:"id"`
	Content       string    `json:"content"`
	NormalizedKey string    `json:"-"`
	Trust         float64   `json:"trust"`
	Mentions      int       `json:"mentions"`
	CreatedAt     time.Time `json:"created_at"`
}

// Item is the uniform wire representation consumed by the dashboard.
// Timestamps serialize as RFC 3339 strings.
type Item struct {
	ID        string     `json:"id"`
	Content   string     `json:"content"`
	Type      MemoryType `json:"type"`
	Mentions  int        `json:"mentions"`
	Trust     float64    `json:"trust"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

func (e *EpisodicMemory) Item() Item {
	expires := e.ExpiresAt
	return Item{
		ID:        e.ID.String(),
		Content:   e.Content,
		Type:      MemoryTypeEpisodic,
		Mentions:  e.Mentions,
		Trust:     e.DisplayTrust(),
		CreatedAt: e.CreatedAt,
		ExpiresAt: &expires,
	}
}

func (k *KnowledgeMemory) Item() Item {
	return Item{
		ID:        k.ID.String(),
		Content:   k.Content,
		Type:      MemoryTypeKnowledge,
		Mentions:  k.Mentions,
		Trust:     k.Trust,
		CreatedAt: k.CreatedAt,
	}
}
