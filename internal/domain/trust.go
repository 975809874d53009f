package domain

const (
	// DefaultInitialTrust is the trust assigned to a knowledge entry
	// when it is first promoted.
	DefaultInitialTrust = 0.5
	// DefaultReinforcementRate controls how fast trust approaches 1.0:
	// each reinforcement closes that fraction of the remaining gap.
	DefaultReinforcementRate = 0.3
	// MaxTrust caps the score; reinforcement approaches but never
	// reaches it.
	MaxTrust = 1.0
)

// ReinforceTrust returns the trust after one reinforcement step.
// The step has diminishing returns: trust' = trust + (1-trust)*rate,
// so the result is monotonically non-decreasing and stays below
// MaxTrust for any rate in (0,1).
func ReinforceTrust(trust, rate float64) float64 {
	next := trust + (MaxTrust-trust)*rate
	if next > MaxTrust {
		return MaxTrust
	}
	if next < trust {
		return trust
	}
	return next
}
