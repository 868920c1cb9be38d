package sim

import "parkfair/core/model"

// requestingReflex drives a waiting claimant: broadcast the emergency claim,
// then try to take a cell, and leave for good once the grace period runs out.
// A liar re-broadcasts only while its suspicion stays safely below the
// detection threshold and a biased coin favors lying; a flagged liar withholds.
func (e *Engine) requestingReflex(a *model.CarAgent) {
	if a.Category == model.CategoryLiar && a.EmergencyRequestCount > 0 {
		lieAgain := !a.Flagged &&
			a.SuspicionLevel < e.cfg.LiarDetectionThreshold-1 &&
			e.ctx.Rand.Bernoulli(e.cfg.LiarLieBias)
		if lieAgain {
			e.protocol.Broadcast(e.ctx, a)
		}
	} else {
		e.protocol.Broadcast(e.ctx, a)
	}
	e.checkForSpot(a)
}

// checkForSpot parks the claimant in the first free cell, inheriting any
// prepaid carryover left by the previous occupant. With no free cell the
// claimant departs once it has waited past the grace period.
func (e *Engine) checkForSpot(a *model.CarAgent) {
	idx, ok := e.ctx.Grid.FindFree()
	if !ok {
		if e.ctx.Now-a.SpawnTime > e.cfg.GracePeriodHours {
			a.State = model.StateDeparted
			e.ctx.Stats.AddDeparture(a.ID, e.ctx.Now)
			e.ctx.Stats.Record(Record{
				Time:    e.ctx.Now,
				Kind:    EventLeftWithoutParking,
				AgentID: a.ID,
				Spot:    model.NoSpot,
			})
		}
		return
	}

	carryover, err := e.ctx.Grid.Occupy(idx, a.ID)
	if err != nil {
		e.log.Errorf("occupy cell %d for %s: %v", idx, a.ID, err)
		return
	}
	a.Spot = idx
	a.ArrivalTime = e.ctx.Now
	a.TransferredTime = carryover
	if carryover > 0 {
		a.PaidDuration = carryover
	} else {
		a.PaidDuration = e.drawPaidDuration()
	}
	a.State = model.StateParked
	a.ParkingHistory++

	cost := 0.0
	if a.Category == model.CategoryLiar {
		cost = a.TransferredTime * e.cfg.ParkingRate
	}
	e.ctx.ClearRefused(a.ID)
	e.ctx.StageEmergencyAdd(a.ID)
	e.ctx.Stats.AddParked(a, idx, e.ctx.Now, cost)
	e.ctx.Stats.Record(Record{
		Time:    e.ctx.Now,
		Kind:    EventParked,
		AgentID: a.ID,
		Spot:    idx,
		Extra:   map[string]any{"category": a.Category.String(), "transferred_time": a.TransferredTime},
	})
}

// parkedNormalReflex keeps a normal occupant current: it renews paid time on
// overstay and refreshes the idle willingness score. Renewal never triggers an
// eviction by itself.
func (e *Engine) parkedNormalReflex(a *model.CarAgent) {
	if a.Spot == model.NoSpot {
		e.log.Errorf("parked agent %s has no spot reference", a.ID)
		return
	}
	if e.ctx.Now-a.ArrivalTime >= a.PaidDuration {
		a.PaidDuration += e.drawPaidDuration()
	}
	a.WillingnessToHelp = e.scorer.Score(a, model.EmergencyRequest{}, e.ctx.Now)
}

// parkedEmergencyReflex converts a genuine emergency into a normal occupant
// once it has been parked long enough. The conversion is one-way.
func (e *Engine) parkedEmergencyReflex(a *model.CarAgent) {
	if a.Spot == model.NoSpot {
		e.log.Errorf("parked agent %s has no spot reference", a.ID)
		return
	}
	if e.ctx.Now-a.ArrivalTime < emergencyToNormalHours {
		return
	}
	a.Category = model.CategoryNormal
	e.ctx.StageEmergencyRemove(a.ID)
	e.ctx.Stats.Record(Record{
		Time:    e.ctx.Now,
		Kind:    EventSwitchedToNormal,
		AgentID: a.ID,
		Spot:    a.Spot,
	})
}

// parkedLiarReflex lets a long-parked liar slip away with a fixed probability
// to dodge detection.
func (e *Engine) parkedLiarReflex(a *model.CarAgent) {
	if a.Spot == model.NoSpot {
		e.log.Errorf("parked agent %s has no spot reference", a.ID)
		return
	}
	if e.ctx.Now-a.ArrivalTime < liarSelfRemovalHours {
		return
	}
	if e.ctx.Rand.Bernoulli(e.cfg.LiarSelfRemovalProb) {
		e.vacate(a, false, EventLiarLeft)
	}
}

// evict releases the occupant's cell on behalf of the negotiation protocol.
func (e *Engine) evict(a *model.CarAgent) {
	e.vacate(a, true, EventVacated)
}

// vacate frees the agent's cell, hands unused prepaid time to the next
// occupant as carryover and retires the agent.
func (e *Engine) vacate(a *model.CarAgent, evicted bool, kind EventKind) {
	if a.State != model.StateParked || a.Spot == model.NoSpot {
		e.log.Errorf("agent %s asked to vacate without a spot", a.ID)
		return
	}
	elapsed := e.ctx.Now - a.ArrivalTime
	remaining := a.PaidDuration - elapsed
	if remaining < 0 {
		remaining = 0
	}
	spot := a.Spot
	if err := e.ctx.Grid.Free(spot, remaining); err != nil {
		e.log.Errorf("free cell %d for %s: %v", spot, a.ID, err)
		return
	}
	if a.Category == model.CategoryNormal && remaining > 0 {
		e.ctx.Stats.AddTransferredTime(remaining)
	}
	a.HasVacatedBefore = true
	a.Spot = model.NoSpot
	a.State = model.StateDeparted
	if a.IsClaimant() {
		e.ctx.StageEmergencyRemove(a.ID)
	}
	e.ctx.Stats.AddVacated(a, spot, remaining, e.ctx.Now, evicted)
	e.ctx.Stats.Record(Record{
		Time:    e.ctx.Now,
		Kind:    kind,
		AgentID: a.ID,
		Spot:    spot,
		Extra:   map[string]any{"remaining_time": remaining, "evicted": evicted},
	})
}

// detectorPass runs the liar detector over every live claimant.
func (e *Engine) detectorPass() {
	for _, a := range e.ctx.Agents() {
		if !a.IsClaimant() || a.State == model.StateDeparted {
			continue
		}
		if e.detector.Observe(a) {
			e.ctx.Stats.AddFlagged(a, e.ctx.Now)
			e.log.Infof("agent %s flagged at suspicion %d", a.ID, a.SuspicionLevel)
		}
	}
}
