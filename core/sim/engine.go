package sim

import (
	"context"
	"fmt"
	"math"

	"parkfair/core/logger"
	"parkfair/core/messaging"
	"parkfair/core/model"
)

// A parked genuine emergency converts to a normal occupant after this long.
const emergencyToNormalHours = 2.0

// A parked liar only considers slipping away after this long.
const liarSelfRemovalHours = 24.0

// Engine drives the simulation: it advances the clock in fixed increments,
// spawns claimants at hour boundaries, evaluates agent reflexes cooperatively
// and terminates after the configured cycle count.
type Engine struct {
	cfg      Config
	ctx      *Context
	protocol *Protocol
	detector LiarDetector
	scorer   Scorer
	log      logger.Logger

	agentSeq      int
	lastSpawnHour int
}

// NewEngine builds an engine from the configuration, seeding the grid with
// one normal occupant per cell.
func NewEngine(cfg Config, delivery messaging.Sender, log logger.Logger, stats *Aggregator) (*Engine, error) {
	if delivery == nil || log == nil || stats == nil {
		return nil, fmt.Errorf("sim: nil parameter provided to NewEngine")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("sim config: %w", err)
	}
	grid, err := NewGrid(cfg.GridWidth, cfg.GridHeight)
	if err != nil {
		return nil, err
	}
	scorer := Scorer{
		MaxParkingDuration: cfg.MaxParkingDurationHours,
		MaxParkingHistory:  cfg.MaxParkingHistory,
	}
	e := &Engine{
		cfg:      cfg,
		ctx:      NewContext(grid, NewRandomSource(cfg.Seed), log, stats),
		detector: LiarDetector{Threshold: cfg.LiarDetectionThreshold},
		scorer:   scorer,
		log:      log,
	}
	e.protocol = &Protocol{Scorer: scorer, Delivery: delivery, Log: log, Evict: e.evict}
	e.seedOccupants()
	return e, nil
}

// Context exposes the simulation state, mainly for tests and the summary.
func (e *Engine) Context() *Context { return e.ctx }

// Run executes cycles until the configured total is reached or the context is
// canceled.
func (e *Engine) Run(ctx context.Context) error {
	for e.ctx.Cycle < e.cfg.TotalCycles {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		e.RunCycle()
	}
	return nil
}

// RunCycle advances the clock one increment and evaluates every agent reflex
// once. Membership changes to the emergency-parked set are committed at the
// end of the cycle.
func (e *Engine) RunCycle() {
	e.ctx.Cycle++
	e.ctx.Now += e.cfg.CycleDurationHours
	e.spawn()

	for _, a := range e.ctx.Agents() {
		switch {
		case a.State == model.StateRequesting:
			e.requestingReflex(a)
		case a.State == model.StateParked && a.Category == model.CategoryNormal:
			e.parkedNormalReflex(a)
		case a.State == model.StateParked && a.Category == model.CategoryGenuineEmergency:
			e.parkedEmergencyReflex(a)
		case a.State == model.StateParked && a.Category == model.CategoryLiar:
			e.parkedLiarReflex(a)
		}
	}

	e.detectorPass()
	e.ctx.CommitMembership()

	if parked, occupied := e.ctx.ParkedCount(), e.ctx.Grid.OccupiedCount(); parked != occupied {
		e.log.Errorf("occupancy mismatch at cycle %d: %d parked agents, %d occupied cells",
			e.ctx.Cycle, parked, occupied)
	}
}

// seedOccupants fills every cell with a normal agent at time zero.
func (e *Engine) seedOccupants() {
	for i := 0; i < e.ctx.Grid.Capacity(); i++ {
		a := e.newAgent(model.CategoryNormal, model.LiarTierNone)
		a.State = model.StateParked
		a.PriorityLevel = 0
		a.PaidDuration = e.drawPaidDuration()
		if _, err := e.ctx.Grid.Occupy(i, a.ID); err != nil {
			e.log.Errorf("seed occupant %s: %v", a.ID, err)
			continue
		}
		a.Spot = i
		a.WillingnessToHelp = e.scorer.Score(a, model.EmergencyRequest{}, e.ctx.Now)
		e.ctx.AddAgent(a)
	}
}

// spawn creates new claimants whenever the clock crosses an hour boundary.
func (e *Engine) spawn() {
	hour := int(math.Floor(e.ctx.Now + 1e-9))
	for h := e.lastSpawnHour + 1; h <= hour; h++ {
		n := e.ctx.Rand.UniformInt(e.cfg.EmergencyCarsPerHourMin, e.cfg.EmergencyCarsPerHourMax)
		for i := 0; i < n; i++ {
			e.spawnClaimant(model.CategoryGenuineEmergency, model.LiarTierNone, 2)
		}
		if e.cfg.IncludeLiars {
			m := e.ctx.Rand.UniformInt(e.cfg.LiarCarsPerHourMin, e.cfg.LiarCarsPerHourMax)
			for i := 0; i < m; i++ {
				tier, prio := model.LiarTierLow, 1
				if e.ctx.Rand.Bernoulli(e.cfg.LiarHighTierProb) {
					tier, prio = model.LiarTierHigh, 2
				}
				e.spawnClaimant(model.CategoryLiar, tier, prio)
			}
		}
	}
	if hour > e.lastSpawnHour {
		e.lastSpawnHour = hour
	}
}

func (e *Engine) spawnClaimant(cat model.Category, tier model.LiarTier, priority int) {
	a := e.newAgent(cat, tier)
	a.State = model.StateRequesting
	a.PriorityLevel = priority
	a.HasVacatedBefore = e.ctx.Rand.Bernoulli(e.cfg.VacatedBeforeBias)
	e.ctx.AddAgent(a)
	e.log.Debugw("claimant spawned", map[string]any{
		"agent":    a.ID,
		"category": cat.String(),
		"tier":     tier.String(),
		"time":     e.ctx.Now,
	})
}

func (e *Engine) newAgent(cat model.Category, tier model.LiarTier) *model.CarAgent {
	e.agentSeq++
	willingness := model.WillingnessLow
	if e.ctx.Rand.Bernoulli(e.cfg.HighWillingnessPercentage) {
		willingness = model.WillingnessHigh
	}
	return &model.CarAgent{
		ID:             model.AgentID(fmt.Sprintf("car-%04d", e.agentSeq)),
		Category:       cat,
		LiarTier:       tier,
		Willingness:    willingness,
		SpawnTime:      e.ctx.Now,
		ParkingHistory: e.ctx.Rand.UniformInt(0, e.cfg.MaxParkingHistory),
		Size:           model.CarSize(e.ctx.Rand.UniformInt(0, 2)),
		Spot:           model.NoSpot,
	}
}

func (e *Engine) drawPaidDuration() float64 {
	return e.ctx.Rand.UniformReal(e.cfg.PaidDurationMinHours, e.cfg.PaidDurationMaxHours)
}

// Summary builds the end-of-run report.
func (e *Engine) Summary(runID string) Summary {
	return e.ctx.Stats.Summary(runID, e.ctx.Cycle, e.ctx.Grid.OccupiedCount())
}
