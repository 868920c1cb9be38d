package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"parkfair/core/model"
)

func TestScorerReferenceValues(t *testing.T) {
	s := Scorer{MaxParkingDuration: 24, MaxParkingHistory: 10}
	agent := &model.CarAgent{
		ID:             "car-0001",
		ArrivalTime:    0,
		ParkingHistory: 2,
		Size:           model.SizeSmall,
		Willingness:    model.WillingnessHigh,
	}
	req := model.EmergencyRequest{PriorityLevel: 2, HasVacatedBefore: true}

	got := s.Score(agent, req, 5)
	assert.InDelta(t, 0.759, got, 1e-3)

	agent.Willingness = model.WillingnessLow
	got = s.Score(agent, req, 5)
	assert.InDelta(t, 0.253, got, 1e-3)
}

// The willingness category alone must decide which side of the acceptance
// threshold an agent lands on, for every combination of factor inputs.
func TestScorerPartitionExactness(t *testing.T) {
	s := Scorer{MaxParkingDuration: 24, MaxParkingHistory: 10}
	sizes := []model.CarSize{model.SizeSmall, model.SizeMedium, model.SizeLarge}
	for _, size := range sizes {
		for history := 0; history <= 12; history += 3 {
			for prio := 0; prio <= 2; prio++ {
				for _, vacated := range []bool{false, true} {
					for _, now := range []float64{0, 5, 24, 100} {
						agent := &model.CarAgent{
							ParkingHistory: history,
							Size:           size,
							Willingness:    model.WillingnessHigh,
						}
						req := model.EmergencyRequest{PriorityLevel: prio, HasVacatedBefore: vacated}
						high := s.Score(agent, req, now)
						if high < AcceptanceThreshold || high > 1 {
							t.Fatalf("high score %f out of [0.45,1] for %v", high, req)
						}
						agent.Willingness = model.WillingnessLow
						low := s.Score(agent, req, now)
						if low < 0 || low >= AcceptanceThreshold {
							t.Fatalf("low score %f out of [0,0.45) for %v", low, req)
						}
					}
				}
			}
		}
	}
}

func TestScorerClampsFactors(t *testing.T) {
	s := Scorer{MaxParkingDuration: 24, MaxParkingHistory: 10}
	agent := &model.CarAgent{
		ArrivalTime:    0,
		ParkingHistory: 1000,
		Size:           model.SizeSmall,
		Willingness:    model.WillingnessHigh,
	}
	req := model.EmergencyRequest{PriorityLevel: 2, HasVacatedBefore: true}
	// Far past the maximum duration every factor saturates at 1 except the
	// vacated bonus, which caps at 0.2.
	got := s.Score(agent, req, 1e6)
	want := AcceptanceThreshold + (0.25+0.15+0.20+0.25+0.15*0.2)*(1-AcceptanceThreshold)
	assert.InDelta(t, want, got, 1e-9)
	assert.LessOrEqual(t, got, 1.0)
}

func TestScorerZeroDenominators(t *testing.T) {
	var s Scorer
	agent := &model.CarAgent{Size: model.SizeLarge, Willingness: model.WillingnessLow}
	got := s.Score(agent, model.EmergencyRequest{}, 10)
	assert.GreaterOrEqual(t, got, 0.0)
	assert.Less(t, got, AcceptanceThreshold)
}
