package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parkfair/core/model"
	"parkfair/internal/eventbus"
)

func TestAggregatorCountsByCategory(t *testing.T) {
	agg := newTestAggregator()

	genuine := &model.CarAgent{ID: "g", Category: model.CategoryGenuineEmergency}
	lowLiar := &model.CarAgent{ID: "l", Category: model.CategoryLiar, LiarTier: model.LiarTierLow}
	highLiar := &model.CarAgent{ID: "h", Category: model.CategoryLiar, LiarTier: model.LiarTierHigh}

	agg.AddParked(genuine, 0, 1, 0)
	agg.AddParked(lowLiar, 1, 1, 0)
	agg.AddParked(highLiar, 2, 1, 6)

	sum := agg.Summary("run", 1, 3)
	assert.Equal(t, 1, sum.GenuineEmergencies)
	assert.Equal(t, 1, sum.LowTierLiars)
	assert.Equal(t, 1, sum.HighTierLiars)
	assert.Equal(t, 6.0, sum.TotalLiarCost)
}

// A liar parking with 3h of inherited time at a rate of 2 per hour is charged
// exactly 6, once.
func TestAggregatorLiarCostChargedOnce(t *testing.T) {
	agg := newTestAggregator()
	liar := &model.CarAgent{
		ID:              "l",
		Category:        model.CategoryLiar,
		LiarTier:        model.LiarTierLow,
		TransferredTime: 3.0,
	}
	agg.AddParked(liar, 4, 2, 3.0*2.0)
	assert.Equal(t, 6.0, agg.TotalLiarCost())
}

func TestAggregatorRecordsPreserveOrder(t *testing.T) {
	agg := newTestAggregator()
	agg.Record(Record{Time: 1, Kind: EventParked, AgentID: "a"})
	agg.Record(Record{Time: 2, Kind: EventVacated, AgentID: "b"})
	agg.Record(Record{Time: 2, Kind: EventLiarLeft, AgentID: "c"})

	recs := agg.Records()
	require.Len(t, recs, 3)
	assert.Equal(t, EventParked, recs[0].Kind)
	assert.Equal(t, EventVacated, recs[1].Kind)
	assert.Equal(t, EventLiarLeft, recs[2].Kind)
}

func TestAggregatorStreamsRecords(t *testing.T) {
	bus := eventbus.New[Record](4)
	agg := NewAggregator(nil, nil, bus)
	sub := bus.Subscribe()

	agg.Record(Record{Time: 1, Kind: EventParked, AgentID: "a"})
	got := <-sub
	assert.Equal(t, EventParked, got.Kind)
	bus.Close()
}

func TestAggregatorEvictionScoreStatistics(t *testing.T) {
	agg := newTestAggregator()
	a := &model.CarAgent{ID: "a", Category: model.CategoryNormal, WillingnessToHelp: 0.6}
	b := &model.CarAgent{ID: "b", Category: model.CategoryNormal, WillingnessToHelp: 0.8}
	agg.AddVacated(a, 0, 1, 5, true)
	agg.AddVacated(b, 1, 0, 5, true)
	// Voluntary departures do not enter the eviction statistics.
	agg.AddVacated(a, 2, 0, 6, false)

	sum := agg.Summary("run", 10, 0)
	assert.InDelta(t, 0.7, sum.MeanEvictionScore, 1e-9)
	assert.Greater(t, sum.StdDevEvictionScore, 0.0)
}

func TestAggregatorTransferredTimeIgnoresNonPositive(t *testing.T) {
	agg := newTestAggregator()
	agg.AddTransferredTime(2.5)
	agg.AddTransferredTime(0)
	agg.AddTransferredTime(-1)
	assert.Equal(t, 2.5, agg.TotalTransferredHours())
}
