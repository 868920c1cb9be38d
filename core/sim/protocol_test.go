package sim

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parkfair/core/model"
	"parkfair/infra/logger"
)

// protocolFixture builds a context with a full grid of parked normal agents
// and a protocol whose Evict frees the occupant's cell.
func protocolFixture(t *testing.T, occupants int, willingness model.WillingnessCategory) (*Protocol, *Context) {
	t.Helper()
	grid, err := NewGrid(occupants, 1)
	require.NoError(t, err)
	ctx := NewContext(grid, NewRandomSource(1), logger.NopLogger{}, newTestAggregator())

	for i := 0; i < occupants; i++ {
		a := &model.CarAgent{
			ID:           model.AgentID(agentID(i)),
			Category:     model.CategoryNormal,
			State:        model.StateParked,
			Willingness:  willingness,
			Size:         model.SizeSmall,
			Spot:         i,
			PaidDuration: 4,
		}
		_, err := grid.Occupy(i, a.ID)
		require.NoError(t, err)
		ctx.AddAgent(a)
	}

	p := &Protocol{
		Scorer:   Scorer{MaxParkingDuration: 24, MaxParkingHistory: 10},
		Delivery: newMemSender(),
		Log:      logger.NopLogger{},
	}
	p.Evict = func(a *model.CarAgent) {
		require.NoError(t, grid.Free(a.Spot, 0))
		a.Spot = model.NoSpot
		a.State = model.StateDeparted
	}
	return p, ctx
}

func agentID(i int) string {
	return fmt.Sprintf("occ-%03d", i)
}

func addClaimant(ctx *Context, id model.AgentID, prio int, vacated bool) *model.CarAgent {
	a := &model.CarAgent{
		ID:               id,
		Category:         model.CategoryGenuineEmergency,
		State:            model.StateRequesting,
		PriorityLevel:    prio,
		HasVacatedBefore: vacated,
		Spot:             model.NoSpot,
	}
	ctx.AddAgent(a)
	return a
}

func TestBroadcastEvictsSingleMostWilling(t *testing.T) {
	p, ctx := protocolFixture(t, 20, model.WillingnessHigh)
	ctx.Now = 1
	req := addClaimant(ctx, "car-emergency", 2, true)

	// Give one occupant a longer tenure so it outranks the rest.
	best, ok := ctx.Agent(model.AgentID(agentID(3)))
	require.True(t, ok)
	best.ArrivalTime = -20

	p.Broadcast(ctx, req)

	assert.Equal(t, 1, req.EmergencyRequestCount)
	assert.Equal(t, 1, ctx.Grid.FreeCount(), "exactly one occupant evicted")
	assert.Equal(t, model.StateDeparted, best.State, "highest scorer is selected")
}

func TestBroadcastNoEvictionWhenSupplySuffices(t *testing.T) {
	p, ctx := protocolFixture(t, 4, model.WillingnessHigh)
	require.NoError(t, ctx.Grid.Free(3, 0))
	occ, _ := ctx.Agent(model.AgentID(agentID(3)))
	occ.State = model.StateDeparted
	occ.Spot = model.NoSpot

	req := addClaimant(ctx, "car-emergency", 2, false)
	p.Broadcast(ctx, req)

	assert.Equal(t, 1, ctx.Grid.FreeCount(), "no eviction when waiting <= free")
}

func TestBroadcastEvictionBound(t *testing.T) {
	p, ctx := protocolFixture(t, 6, model.WillingnessHigh)
	ctx.Now = 2
	for i := 0; i < 3; i++ {
		addClaimant(ctx, model.AgentID(agentID(100+i)), 2, false)
	}
	req := ctx.WaitingClaimants()[0]
	p.Broadcast(ctx, req)

	// shortfall = 3 waiting - 0 free = 3 evictions, never more.
	assert.Equal(t, 3, ctx.Grid.FreeCount())
}

func TestBroadcastCountsRefusals(t *testing.T) {
	p, ctx := protocolFixture(t, 5, model.WillingnessLow)
	req := addClaimant(ctx, "car-emergency", 0, false)
	p.Broadcast(ctx, req)

	// Every low-willingness occupant scores below the threshold.
	assert.Equal(t, 5, ctx.Stats.TotalRefusals())

	// Repeat broadcasts count reluctance again; this is the literal
	// historical behavior.
	p.Broadcast(ctx, req)
	assert.Equal(t, 10, ctx.Stats.TotalRefusals())
}

func TestBroadcastRejectionIdempotence(t *testing.T) {
	p, ctx := protocolFixture(t, 5, model.WillingnessLow)
	ctx.Now = 1
	first := addClaimant(ctx, "car-first", 2, false)
	addClaimant(ctx, "car-second", 2, false)

	p.Broadcast(ctx, first)
	assert.Equal(t, 2, ctx.Stats.TotalRejected(), "both waiting claimants rejected once")

	p.Broadcast(ctx, first)
	assert.Equal(t, 2, ctx.Stats.TotalRejected(), "repeat rounds do not double count")

	// Parking clears the refused mark, so a later failure counts again.
	ctx.ClearRefused("car-first")
	p.Broadcast(ctx, first)
	assert.Equal(t, 3, ctx.Stats.TotalRejected())
}

func TestBroadcastToleratesUnavailableDelivery(t *testing.T) {
	p, ctx := protocolFixture(t, 3, model.WillingnessHigh)
	p.Delivery.(*memSender).down = true
	req := addClaimant(ctx, "car-emergency", 2, false)

	p.Broadcast(ctx, req)

	// Nothing was delivered, so nobody scored and nobody refused. The demand
	// check still ran against stale zero scores, leaving no candidates.
	assert.Equal(t, 0, ctx.Stats.TotalRefusals())
	assert.Equal(t, 0, ctx.Grid.FreeCount())
	assert.Equal(t, 1, ctx.Stats.TotalRejected())
}
