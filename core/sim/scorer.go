package sim

import "parkfair/core/model"

// AcceptanceThreshold partitions willingness scores: occupants at or below it
// refuse to vacate, occupants above it are eviction candidates. The remap in
// Score guarantees the willingness category alone decides the side.
const AcceptanceThreshold = 0.45

// Factor weights of the willingness score.
const (
	weightTime     = 0.25
	weightHistory  = 0.15
	weightSize     = 0.20
	weightPriority = 0.25
	weightVacated  = 0.15

	vacatedBonus   = 0.2
	noVacatedBonus = 0.05
)

// Scorer computes an occupant's willingness to vacate for a claimant. It is a
// pure function of the occupant, the request payload and the clock.
type Scorer struct {
	// MaxParkingDuration normalizes how long the occupant has been parked,
	// in hours.
	MaxParkingDuration float64
	// MaxParkingHistory normalizes the occupant's past parking count.
	MaxParkingHistory int
}

// Score returns the occupant's willingness in [0,1]. High-category occupants
// land in [0.45,1.0], low-category ones in [0,0.45).
func (s Scorer) Score(agent *model.CarAgent, req model.EmergencyRequest, now float64) float64 {
	timeFactor := 0.0
	if s.MaxParkingDuration > 0 {
		timeFactor = clamp01((now - agent.ArrivalTime) / s.MaxParkingDuration)
	}
	historyFactor := 0.0
	if s.MaxParkingHistory > 0 {
		historyFactor = clamp01(float64(agent.ParkingHistory) / float64(s.MaxParkingHistory))
	}
	sizeFactor := agent.Size.Factor()
	priorityFactor := clamp01(float64(req.PriorityLevel) / 2.0)
	bonus := noVacatedBonus
	if req.HasVacatedBefore {
		bonus = vacatedBonus
	}

	base := clamp01(weightTime*timeFactor +
		weightHistory*historyFactor +
		weightSize*sizeFactor +
		weightPriority*priorityFactor +
		weightVacated*bonus)

	if agent.Willingness == model.WillingnessHigh {
		return AcceptanceThreshold + base*(1-AcceptanceThreshold)
	}
	return base * AcceptanceThreshold
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
