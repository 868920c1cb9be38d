package sim

import (
	"sort"

	"parkfair/core/logger"
	"parkfair/core/messaging"
	"parkfair/core/model"
)

// Protocol runs the broadcast/score/select/evict sequence for one emergency
// request. It is state-free: every invocation evaluates demand and supply at
// that moment, so a later request in the same cycle sees cells freed by an
// earlier one.
type Protocol struct {
	Scorer   Scorer
	Delivery messaging.Sender
	Log      logger.Logger

	// Evict releases the occupant's cell through the agent state machine. Set
	// by the engine.
	Evict func(occupant *model.CarAgent)
}

// Broadcast delivers the requester's emergency claim to every parked normal
// occupant, lets each one score its willingness, and evicts the most willing
// occupants when waiting claimants outnumber free cells.
func (p *Protocol) Broadcast(ctx *Context, requester *model.CarAgent) {
	requester.EmergencyRequestCount++
	req := model.EmergencyRequest{
		From:             requester.ID,
		HasVacatedBefore: requester.HasVacatedBefore,
		PriorityLevel:    requester.PriorityLevel,
	}

	recipients := ctx.ParkedNormals()
	for _, rcpt := range recipients {
		if p.Delivery.Send(rcpt.ID, req) == messaging.Unavailable {
			p.Log.Debugw("request lost in delivery", map[string]any{
				"requester": requester.ID,
				"recipient": rcpt.ID,
			})
		}
	}

	// Score every delivered request. A score at or below the threshold counts
	// as a refusal whether or not the occupant is later asked to vacate.
	for _, rcpt := range recipients {
		for p.Delivery.HasPending(rcpt.ID) {
			pending, ok := p.Delivery.Receive(rcpt.ID)
			if !ok {
				break
			}
			score := p.Scorer.Score(rcpt, pending, ctx.Now)
			rcpt.WillingnessToHelp = score
			if score <= AcceptanceThreshold {
				ctx.Stats.AddRefusal(rcpt.ID, pending.From, score, ctx.Now)
			}
		}
	}

	waiting := ctx.WaitingClaimants()
	free := ctx.Grid.FreeCount()
	if len(waiting) <= free {
		return
	}

	candidates := make([]*model.CarAgent, 0, len(recipients))
	for _, rcpt := range recipients {
		if rcpt.State == model.StateParked && rcpt.WillingnessToHelp > AcceptanceThreshold {
			candidates = append(candidates, rcpt)
		}
	}
	// Stable sort keeps ties in enumeration order, which makes selection
	// deterministic for a fixed seed.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].WillingnessToHelp > candidates[j].WillingnessToHelp
	})

	if len(candidates) == 0 {
		for _, w := range waiting {
			if ctx.MarkRefused(w.ID) {
				ctx.Stats.AddRejected(w.ID, ctx.Now)
			}
		}
		return
	}

	shortfall := len(waiting) - free
	if shortfall > len(candidates) {
		shortfall = len(candidates)
	}
	for _, occ := range candidates[:shortfall] {
		p.Log.Debugw("evicting occupant", map[string]any{
			"occupant":  occ.ID,
			"requester": requester.ID,
			"score":     occ.WillingnessToHelp,
		})
		p.Evict(occ)
	}
}
