package domain

import (
	"testing"
	"time"
)

func TestReinforceTrust(t *testing.T) {
	tests := []struct {
		name  string
		trust float64
		rate  float64
		want  float64
	}{
		{"fresh entry", 0.5, 0.3, 0.65},
		{"second step", 0.65, 0.3, 0.755},
		{"zero rate is a no-op", 0.5, 0, 0.5},
		{"near ceiling stays below", 0.999, 0.3, 0.9993},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ReinforceTrust(tt.trust, tt.rate)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("ReinforceTrust(%v, %v) = %v, want %v", tt.trust, tt.rate, got, tt.want)
			}
		})
	}
}

func TestReinforceTrustAsymptote(t *testing.T) {
	trust := DefaultInitialTrust
	for i := 0; i < 1000; i++ {
		next := ReinforceTrust(trust, DefaultReinforcementRate)
		if next < trust {
			t.Fatalf("trust decreased at step %d: %v -> %v", i, trust, next)
		}
		trust = next
	}
	if trust >= MaxTrust {
		t.Errorf("trust reached ceiling after heavy reinforcement: %v", trust)
	}
}

func TestEpisodicDisplayTrust(t *testing.T) {
	e := EpisodicMemory{Mentions: 1}
	if got := e.DisplayTrust(); got != 0.2 {
		t.Errorf("one mention: got %v, want 0.2", got)
	}
	e.Mentions = 7
	if got := e.DisplayTrust(); got != 1.0 {
		t.Errorf("seven mentions should cap at 1.0, got %v", got)
	}
}

func TestEpisodicAlive(t *testing.T) {
	now := time.Now()
	e := EpisodicMemory{CreatedAt: now, ExpiresAt: now.Add(time.Minute)}
	if !e.Alive(now) {
		t.Error("entry should be alive at creation")
	}
	if !e.Alive(now.Add(59 * time.Second)) {
		t.Error("entry should be alive just before expiry")
	}
	if e.Alive(now.Add(time.Minute)) {
		t.Error("entry should be dead exactly at expiry")
	}
}
