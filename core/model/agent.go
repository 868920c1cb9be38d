package model

import "fmt"

// AgentID uniquely identifies a car agent for the duration of a run.
type AgentID string

// NoSpot marks an agent that currently holds no grid cell.
const NoSpot = -1

// Category describes what kind of claimant an agent is.
type Category int

const (
	CategoryNormal Category = iota
	CategoryGenuineEmergency
	CategoryLiar
)

// String returns a stable label used in logs, metrics and event records.
func (c Category) String() string {
	switch c {
	case CategoryNormal:
		return "normal"
	case CategoryGenuineEmergency:
		return "genuine_emergency"
	case CategoryLiar:
		return "liar"
	default:
		return "unknown"
	}
}

// LiarTier is the priority tier a liar claims. It is None for honest agents.
type LiarTier int

const (
	LiarTierNone LiarTier = iota
	LiarTierLow
	LiarTierHigh
)

func (t LiarTier) String() string {
	switch t {
	case LiarTierLow:
		return "low"
	case LiarTierHigh:
		return "high"
	default:
		return "none"
	}
}

// State is the lifecycle state of an agent.
type State int

const (
	StateParked State = iota
	StateRequesting
	StateDeparted
)

func (s State) String() string {
	switch s {
	case StateParked:
		return "parked"
	case StateRequesting:
		return "requesting"
	case StateDeparted:
		return "departed"
	default:
		return "unknown"
	}
}

// WillingnessCategory partitions agents around the 0.45 acceptance threshold.
// It is assigned once at creation and never changes.
type WillingnessCategory int

const (
	WillingnessLow WillingnessCategory = iota
	WillingnessHigh
)

func (w WillingnessCategory) String() string {
	if w == WillingnessHigh {
		return "high"
	}
	return "low"
}

// CarSize influences how easily an agent is persuaded to vacate.
type CarSize int

const (
	SizeSmall CarSize = iota
	SizeMedium
	SizeLarge
)

// Factor returns the normalized willingness contribution of the size.
// Smaller cars relocate more easily.
func (s CarSize) Factor() float64 {
	switch s {
	case SizeSmall:
		return 1.0
	case SizeMedium:
		return 0.7
	default:
		return 0.4
	}
}

func (s CarSize) String() string {
	switch s {
	case SizeSmall:
		return "small"
	case SizeMedium:
		return "medium"
	default:
		return "large"
	}
}

// CarAgent is a participant in the lot: a parked occupant, an emergency
// claimant or a liar pretending to be one.
type CarAgent struct {
	ID          AgentID
	Category    Category
	LiarTier    LiarTier
	State       State
	Willingness WillingnessCategory

	// SpawnTime is when the agent entered the simulation; ArrivalTime is when
	// it last occupied a cell. Both are simulated hours.
	SpawnTime   float64
	ArrivalTime float64

	PaidDuration   float64
	ParkingHistory int
	Size           CarSize
	PriorityLevel  int

	HasVacatedBefore  bool
	WillingnessToHelp float64

	EmergencyRequestCount int
	SuspicionLevel        int
	Flagged               bool

	// TransferredTime is the prepaid carryover inherited from the previous
	// occupant of the agent's current cell, in hours.
	TransferredTime float64

	// Spot is the index of the occupied grid cell, or NoSpot.
	Spot int
}

// IsClaimant reports whether the agent asserts an emergency, truthfully or not.
func (a *CarAgent) IsClaimant() bool {
	return a.Category != CategoryNormal
}

// Flag marks the agent as a suspected liar. The transition is one-way.
func (a *CarAgent) Flag() {
	a.Flagged = true
}

// Validate checks structural soundness of the agent record.
func (a *CarAgent) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("agent id is required")
	}
	if a.WillingnessToHelp < 0 || a.WillingnessToHelp > 1 {
		return fmt.Errorf("willingness %f out of [0,1]", a.WillingnessToHelp)
	}
	if a.Willingness == WillingnessHigh && a.WillingnessToHelp < 0.45 {
		return fmt.Errorf("high willingness agent scored %f below partition", a.WillingnessToHelp)
	}
	if a.Willingness == WillingnessLow && a.WillingnessToHelp >= 0.45 {
		return fmt.Errorf("low willingness agent scored %f above partition", a.WillingnessToHelp)
	}
	if a.Category == CategoryLiar && a.LiarTier == LiarTierNone {
		return fmt.Errorf("liar agent %s has no tier", a.ID)
	}
	if a.Category != CategoryLiar && a.LiarTier != LiarTierNone {
		return fmt.Errorf("non-liar agent %s carries tier %s", a.ID, a.LiarTier)
	}
	if a.PriorityLevel < 0 || a.PriorityLevel > 2 {
		return fmt.Errorf("priority level %d out of range", a.PriorityLevel)
	}
	return nil
}
