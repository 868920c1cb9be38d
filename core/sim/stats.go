package sim

import (
	"gonum.org/v1/gonum/stat"

	"parkfair/core/logger"
	"parkfair/core/metrics"
	"parkfair/core/model"
	"parkfair/internal/eventbus"
)

// EventKind enumerates the record types of the simulation event log.
type EventKind string

const (
	EventParked             EventKind = "parked"
	EventVacated            EventKind = "vacated"
	EventLeftWithoutParking EventKind = "left_without_parking"
	EventSwitchedToNormal   EventKind = "switched_to_normal"
	EventLiarLeft           EventKind = "liar_left"
)

// Record is one entry of the event log, ordered by emission time.
type Record struct {
	Time    float64        `json:"time"`
	Kind    EventKind      `json:"event_kind"`
	AgentID model.AgentID  `json:"agent_id"`
	Spot    int            `json:"spot"`
	Extra   map[string]any `json:"extra,omitempty"`
}

// Summary is the structured report produced once at termination.
type Summary struct {
	RunID                 string  `json:"run_id"`
	Cycles                int     `json:"cycles"`
	FinalOccupancy        int     `json:"final_occupancy"`
	GenuineEmergencies    int     `json:"spots_to_genuine_emergencies"`
	LowTierLiars          int     `json:"spots_to_low_priority_liars"`
	HighTierLiars         int     `json:"spots_to_high_priority_liars"`
	TotalLiarCost         float64 `json:"total_liar_cost"`
	TotalTransferredHours float64 `json:"total_transferred_time_by_normal"`
	TotalRefusals         int     `json:"total_refusals"`
	TotalRejected         int     `json:"total_cars_refused_for_parking"`
	MeanEvictionScore     float64 `json:"mean_eviction_score"`
	StdDevEvictionScore   float64 `json:"stddev_eviction_score"`
}

// Aggregator accumulates counters, financial totals and the event log. All
// counters are monotonically non-decreasing for the duration of a run.
type Aggregator struct {
	log  logger.Logger
	sink metrics.Sink
	bus  *eventbus.Bus[Record]

	records []Record

	genuineEmergencies    int
	lowTierLiars          int
	highTierLiars         int
	totalLiarCost         float64
	totalTransferredHours float64
	totalRefusals         int
	totalRejected         int

	evictionScores []float64
}

// NewAggregator creates an Aggregator. A nil sink defaults to NopSink; a nil
// bus disables event streaming.
func NewAggregator(log logger.Logger, sink metrics.Sink, bus *eventbus.Bus[Record]) *Aggregator {
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Aggregator{log: log, sink: sink, bus: bus}
}

// Record appends an entry to the event log and streams it on the bus.
func (a *Aggregator) Record(r Record) {
	a.records = append(a.records, r)
	if a.bus != nil {
		a.bus.Publish(r)
	}
}

// Records returns the event log in emission order.
func (a *Aggregator) Records() []Record { return a.records }

// AddParked accounts for a claimant taking a cell and reports it. For liars,
// cost is the value of the inherited prepaid time, charged once against the
// liar total.
func (a *Aggregator) AddParked(agent *model.CarAgent, spot int, now, cost float64) {
	switch {
	case agent.Category == model.CategoryGenuineEmergency:
		a.genuineEmergencies++
	case agent.Category == model.CategoryLiar && agent.LiarTier == model.LiarTierHigh:
		a.highTierLiars++
	case agent.Category == model.CategoryLiar && agent.LiarTier == model.LiarTierLow:
		a.lowTierLiars++
	}
	if cost > 0 {
		a.totalLiarCost += cost
	}
	a.report(a.sink.RecordPark(metrics.ParkEvent{
		AgentID:          string(agent.ID),
		Category:         agent.Category.String(),
		LiarTier:         agent.LiarTier.String(),
		Spot:             spot,
		Time:             now,
		TransferredHours: agent.TransferredTime,
		Cost:             cost,
	}))
}

// AddTransferredTime accounts prepaid hours a normal occupant left behind.
func (a *Aggregator) AddTransferredTime(hours float64) {
	if hours > 0 {
		a.totalTransferredHours += hours
	}
}

// AddRefusal counts one disapproving occupant for one broadcast.
func (a *Aggregator) AddRefusal(occupant, requester model.AgentID, score, now float64) {
	a.totalRefusals++
	a.report(a.sink.RecordRefusal(metrics.RefusalEvent{
		AgentID:     string(occupant),
		RequesterID: string(requester),
		Score:       score,
		Time:        now,
	}))
}

// AddRejected counts a claimant that could not be served at all.
func (a *Aggregator) AddRejected(id model.AgentID, now float64) {
	a.totalRejected++
	a.report(a.sink.RecordRejected(metrics.RejectedEvent{AgentID: string(id), Time: now}))
}

// AddVacated reports a cell release, keeping the score observed at eviction
// time for the end-of-run statistics.
func (a *Aggregator) AddVacated(agent *model.CarAgent, spot int, remaining, now float64, evicted bool) {
	if evicted {
		a.evictionScores = append(a.evictionScores, agent.WillingnessToHelp)
	}
	a.report(a.sink.RecordVacate(metrics.VacateEvent{
		AgentID:        string(agent.ID),
		Category:       agent.Category.String(),
		Spot:           spot,
		Time:           now,
		RemainingHours: remaining,
		Evicted:        evicted,
		Score:          agent.WillingnessToHelp,
	}))
}

// AddFlagged reports a liar-detector flag.
func (a *Aggregator) AddFlagged(agent *model.CarAgent, now float64) {
	a.report(a.sink.RecordFlag(metrics.FlagEvent{
		AgentID:   string(agent.ID),
		Category:  agent.Category.String(),
		Suspicion: agent.SuspicionLevel,
		Time:      now,
	}))
}

// AddDeparture reports a claimant leaving unparked.
func (a *Aggregator) AddDeparture(id model.AgentID, now float64) {
	a.report(a.sink.RecordDeparture(metrics.DepartureEvent{AgentID: string(id), Time: now}))
}

// TotalRefusals returns the running refusal count.
func (a *Aggregator) TotalRefusals() int { return a.totalRefusals }

// TotalRejected returns the running refused-parking count.
func (a *Aggregator) TotalRejected() int { return a.totalRejected }

// TotalLiarCost returns the running liar cost.
func (a *Aggregator) TotalLiarCost() float64 { return a.totalLiarCost }

// TotalTransferredHours returns the running transferred-time total.
func (a *Aggregator) TotalTransferredHours() float64 { return a.totalTransferredHours }

// Summary builds the end-of-run report and forwards it to the sink.
func (a *Aggregator) Summary(runID string, cycles, occupancy int) Summary {
	s := Summary{
		RunID:                 runID,
		Cycles:                cycles,
		FinalOccupancy:        occupancy,
		GenuineEmergencies:    a.genuineEmergencies,
		LowTierLiars:          a.lowTierLiars,
		HighTierLiars:         a.highTierLiars,
		TotalLiarCost:         a.totalLiarCost,
		TotalTransferredHours: a.totalTransferredHours,
		TotalRefusals:         a.totalRefusals,
		TotalRejected:         a.totalRejected,
	}
	if len(a.evictionScores) > 0 {
		s.MeanEvictionScore = stat.Mean(a.evictionScores, nil)
		if len(a.evictionScores) > 1 {
			s.StdDevEvictionScore = stat.StdDev(a.evictionScores, nil)
		}
	}
	a.report(a.sink.RecordSummary(metrics.SummaryEvent{
		RunID:                 s.RunID,
		Cycles:                s.Cycles,
		GenuineEmergencies:    s.GenuineEmergencies,
		LowTierLiars:          s.LowTierLiars,
		HighTierLiars:         s.HighTierLiars,
		TotalLiarCost:         s.TotalLiarCost,
		TotalTransferredHours: s.TotalTransferredHours,
		TotalRefusals:         s.TotalRefusals,
		TotalRejected:         s.TotalRejected,
	}))
	return s
}

func (a *Aggregator) report(err error) {
	if err != nil && a.log != nil {
		a.log.Warnf("metrics sink: %v", err)
	}
}
