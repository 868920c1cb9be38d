// Package metrics declares the observability sinks the simulation reports to.
// Implementations live in infra/metrics.
package metrics

// ParkEvent records an agent taking possession of a cell.
type ParkEvent struct {
	AgentID          string
	Category         string
	LiarTier         string
	Spot             int
	Time             float64
	TransferredHours float64
	// Cost is the financial liability charged when a liar inherits prepaid
	// time; zero for every other category.
	Cost float64
}

// VacateEvent records an agent releasing its cell, voluntarily or through
// eviction.
type VacateEvent struct {
	AgentID        string
	Category       string
	Spot           int
	Time           float64
	RemainingHours float64
	Evicted        bool
	Score          float64
}

// RefusalEvent records a parked occupant scoring below the acceptance
// threshold for a broadcast. It measures reluctance, not action.
type RefusalEvent struct {
	AgentID     string
	RequesterID string
	Score       float64
	Time        float64
}

// RejectedEvent records a claimant that found neither a free cell nor a
// willing occupant.
type RejectedEvent struct {
	AgentID string
	Time    float64
}

// FlagEvent records the liar detector flagging an agent.
type FlagEvent struct {
	AgentID   string
	Category  string
	Suspicion int
	Time      float64
}

// DepartureEvent records a claimant leaving unparked after the grace period.
type DepartureEvent struct {
	AgentID string
	Time    float64
}

// SummaryEvent is the end-of-run report.
type SummaryEvent struct {
	RunID                 string
	Cycles                int
	GenuineEmergencies    int
	LowTierLiars          int
	HighTierLiars         int
	TotalLiarCost         float64
	TotalTransferredHours float64
	TotalRefusals         int
	TotalRejected         int
}

// Sink records simulation events for observability purposes. Implementations
// must tolerate being called from a single goroutine only.
type Sink interface {
	RecordPark(ParkEvent) error
	RecordVacate(VacateEvent) error
	RecordRefusal(RefusalEvent) error
	RecordRejected(RejectedEvent) error
	RecordFlag(FlagEvent) error
	RecordDeparture(DepartureEvent) error
	RecordSummary(SummaryEvent) error
}

// NopSink implements Sink with no-op methods.
type NopSink struct{}

func (NopSink) RecordPark(ParkEvent) error           { return nil }
func (NopSink) RecordVacate(VacateEvent) error       { return nil }
func (NopSink) RecordRefusal(RefusalEvent) error     { return nil }
func (NopSink) RecordRejected(RejectedEvent) error   { return nil }
func (NopSink) RecordFlag(FlagEvent) error           { return nil }
func (NopSink) RecordDeparture(DepartureEvent) error { return nil }
func (NopSink) RecordSummary(SummaryEvent) error     { return nil }
