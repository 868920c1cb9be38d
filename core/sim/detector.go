package sim

import "parkfair/core/model"

// LiarDetector accumulates suspicion for agents that keep claiming
// emergencies and flags them once a threshold is crossed. The heuristic has no
// false-positive correction: a genuinely repeated request is penalized the
// same way as a dishonest one.
type LiarDetector struct {
	// Threshold is the suspicion level at which an agent is flagged.
	Threshold int
}

// Observe updates the agent's suspicion from its request history and flags it
// when the threshold is reached. Flagging is one-way and applies a priority
// penalty floored at zero. It returns true when the agent was newly flagged.
func (d LiarDetector) Observe(a *model.CarAgent) bool {
	if a.EmergencyRequestCount > 1 {
		a.SuspicionLevel++
	}
	if a.Flagged || a.SuspicionLevel < d.Threshold {
		return false
	}
	a.Flag()
	if a.PriorityLevel > 0 {
		a.PriorityLevel--
	}
	return true
}
