package sim

import (
	"parkfair/core/logger"
	"parkfair/core/model"
)

// Context is the shared simulation state: the clock, the grid, the agent
// roster and the bookkeeping sets. It is created once at run start and passed
// by reference to every component call; only the engine and the aggregator
// mutate it.
type Context struct {
	Now   float64
	Cycle int

	Grid  *Grid
	Rand  RandomSource
	Log   logger.Logger
	Stats *Aggregator

	agents []*model.CarAgent
	byID   map[model.AgentID]*model.CarAgent

	refused map[model.AgentID]struct{}

	// emergencyParked tracks claimants currently holding a cell. Membership
	// changes are staged during a cycle and applied in a single commit phase
	// so no step mutates the set while another iterates it.
	emergencyParked map[model.AgentID]struct{}
	stagedAdds      []model.AgentID
	stagedRemovals  []model.AgentID
}

// NewContext creates an empty simulation context.
func NewContext(grid *Grid, rand RandomSource, log logger.Logger, stats *Aggregator) *Context {
	return &Context{
		Grid:            grid,
		Rand:            rand,
		Log:             log,
		Stats:           stats,
		byID:            make(map[model.AgentID]*model.CarAgent),
		refused:         make(map[model.AgentID]struct{}),
		emergencyParked: make(map[model.AgentID]struct{}),
	}
}

// AddAgent appends the agent to the roster. Enumeration order is insertion
// order, which keeps selection deterministic for a fixed seed.
func (c *Context) AddAgent(a *model.CarAgent) {
	c.agents = append(c.agents, a)
	c.byID[a.ID] = a
}

// Agent looks up an agent by ID.
func (c *Context) Agent(id model.AgentID) (*model.CarAgent, bool) {
	a, ok := c.byID[id]
	return a, ok
}

// Agents returns the roster in enumeration order.
func (c *Context) Agents() []*model.CarAgent { return c.agents }

// ParkedNormals returns parked agents of category Normal in enumeration
// order. Switched former emergencies qualify once their category changes.
func (c *Context) ParkedNormals() []*model.CarAgent {
	var out []*model.CarAgent
	for _, a := range c.agents {
		if a.Category == model.CategoryNormal && a.State == model.StateParked {
			out = append(out, a)
		}
	}
	return out
}

// WaitingClaimants returns non-normal agents still requesting a spot.
func (c *Context) WaitingClaimants() []*model.CarAgent {
	var out []*model.CarAgent
	for _, a := range c.agents {
		if a.IsClaimant() && a.State == model.StateRequesting {
			out = append(out, a)
		}
	}
	return out
}

// ParkedCount returns the number of agents currently in the Parked state.
func (c *Context) ParkedCount() int {
	n := 0
	for _, a := range c.agents {
		if a.State == model.StateParked {
			n++
		}
	}
	return n
}

// MarkRefused adds the agent to the refused set. It returns true only the
// first time, so the refused-parking counter increments at most once per
// agent until it parks.
func (c *Context) MarkRefused(id model.AgentID) bool {
	if _, ok := c.refused[id]; ok {
		return false
	}
	c.refused[id] = struct{}{}
	return true
}

// ClearRefused removes the agent from the refused set on successful parking.
func (c *Context) ClearRefused(id model.AgentID) {
	delete(c.refused, id)
}

// StageEmergencyAdd schedules the claimant's membership in the
// emergency-parked set for the end-of-cycle commit.
func (c *Context) StageEmergencyAdd(id model.AgentID) {
	c.stagedAdds = append(c.stagedAdds, id)
}

// StageEmergencyRemove schedules the claimant's removal from the
// emergency-parked set for the end-of-cycle commit.
func (c *Context) StageEmergencyRemove(id model.AgentID) {
	c.stagedRemovals = append(c.stagedRemovals, id)
}

// CommitMembership applies staged membership changes. Called exactly once per
// cycle, after all reflexes ran.
func (c *Context) CommitMembership() {
	for _, id := range c.stagedAdds {
		c.emergencyParked[id] = struct{}{}
	}
	for _, id := range c.stagedRemovals {
		delete(c.emergencyParked, id)
	}
	c.stagedAdds = c.stagedAdds[:0]
	c.stagedRemovals = c.stagedRemovals[:0]
}

// EmergencyParkedCount returns the committed size of the emergency-parked set.
func (c *Context) EmergencyParkedCount() int {
	return len(c.emergencyParked)
}
