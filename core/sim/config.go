package sim

import "fmt"

// Config holds the simulation parameters. Time quantities are in simulated
// hours.
type Config struct {
	GridWidth  int `json:"grid_width"`
	GridHeight int `json:"grid_height"`

	CycleDurationHours float64 `json:"cycle_duration_hours"`
	TotalCycles        int     `json:"total_cycles"`
	Seed               int64   `json:"seed"`

	// HighWillingnessPercentage is the fraction of normal agents assigned the
	// high willingness category at initialization.
	HighWillingnessPercentage float64 `json:"high_willingness_percentage"`

	MaxParkingDurationHours float64 `json:"max_parking_duration_hours"`
	MaxParkingHistory       int     `json:"max_parking_history"`
	PaidDurationMinHours    float64 `json:"paid_duration_min_hours"`
	PaidDurationMaxHours    float64 `json:"paid_duration_max_hours"`
	GracePeriodHours        float64 `json:"grace_period_hours"`

	// VacatedBeforeBias is the probability a spawned claimant has vacated a
	// spot before, which raises the willingness it inspires in occupants.
	VacatedBeforeBias float64 `json:"vacated_before_bias"`

	EmergencyCarsPerHourMin int `json:"emergency_cars_per_hour_min"`
	EmergencyCarsPerHourMax int `json:"emergency_cars_per_hour_max"`

	IncludeLiars           bool    `json:"include_liars"`
	LiarCarsPerHourMin     int     `json:"liar_cars_per_hour_min"`
	LiarCarsPerHourMax     int     `json:"liar_cars_per_hour_max"`
	LiarHighTierProb       float64 `json:"liar_high_tier_prob"`
	LiarDetectionThreshold int     `json:"liar_detection_threshold"`
	LiarSelfRemovalProb    float64 `json:"liar_self_removal_prob"`
	LiarLieBias            float64 `json:"liar_lie_bias"`

	// ParkingRate is the cost per hour used to value the prepaid time a liar
	// inherits from an evicted occupant.
	ParkingRate float64 `json:"parking_rate"`

	// DeliveryFailureRate is the probability a broadcast to a single occupant
	// is lost by the message-delivery service.
	DeliveryFailureRate float64 `json:"delivery_failure_rate"`
}

// SetDefaults applies sane defaults for unset fields.
func (c *Config) SetDefaults() {
	if c.GridWidth == 0 {
		c.GridWidth = 5
	}
	if c.GridHeight == 0 {
		c.GridHeight = 4
	}
	if c.CycleDurationHours == 0 {
		c.CycleDurationHours = 0.25
	}
	if c.TotalCycles == 0 {
		c.TotalCycles = 192
	}
	if c.Seed == 0 {
		c.Seed = 1
	}
	if c.HighWillingnessPercentage == 0 {
		c.HighWillingnessPercentage = 0.5
	}
	if c.MaxParkingDurationHours == 0 {
		c.MaxParkingDurationHours = 24
	}
	if c.MaxParkingHistory == 0 {
		c.MaxParkingHistory = 10
	}
	if c.PaidDurationMinHours == 0 {
		c.PaidDurationMinHours = 1
	}
	if c.PaidDurationMaxHours == 0 {
		c.PaidDurationMaxHours = 6
	}
	if c.GracePeriodHours == 0 {
		c.GracePeriodHours = 0.5
	}
	if c.VacatedBeforeBias == 0 {
		c.VacatedBeforeBias = 0.2
	}
	if c.EmergencyCarsPerHourMax == 0 {
		c.EmergencyCarsPerHourMin = 0
		c.EmergencyCarsPerHourMax = 2
	}
	if c.LiarCarsPerHourMax == 0 {
		c.LiarCarsPerHourMin = 0
		c.LiarCarsPerHourMax = 1
	}
	if c.LiarHighTierProb == 0 {
		c.LiarHighTierProb = 0.5
	}
	if c.LiarDetectionThreshold == 0 {
		c.LiarDetectionThreshold = 3
	}
	if c.LiarSelfRemovalProb == 0 {
		c.LiarSelfRemovalProb = 0.3
	}
	if c.LiarLieBias == 0 {
		c.LiarLieBias = 0.7
	}
	if c.ParkingRate == 0 {
		c.ParkingRate = 2.0
	}
}

// Validate checks parameter ranges.
func (c Config) Validate() error {
	if c.GridWidth <= 0 || c.GridHeight <= 0 {
		return fmt.Errorf("grid dimensions must be positive")
	}
	if c.CycleDurationHours <= 0 {
		return fmt.Errorf("cycle duration must be positive")
	}
	if c.TotalCycles <= 0 {
		return fmt.Errorf("total cycles must be positive")
	}
	if c.HighWillingnessPercentage < 0 || c.HighWillingnessPercentage > 1 {
		return fmt.Errorf("high willingness percentage %f out of [0,1]", c.HighWillingnessPercentage)
	}
	if c.PaidDurationMinHours <= 0 || c.PaidDurationMaxHours < c.PaidDurationMinHours {
		return fmt.Errorf("invalid paid duration bounds [%f,%f]", c.PaidDurationMinHours, c.PaidDurationMaxHours)
	}
	if c.EmergencyCarsPerHourMin < 0 || c.EmergencyCarsPerHourMax < c.EmergencyCarsPerHourMin {
		return fmt.Errorf("invalid emergency spawn bounds [%d,%d]", c.EmergencyCarsPerHourMin, c.EmergencyCarsPerHourMax)
	}
	if c.LiarCarsPerHourMin < 0 || c.LiarCarsPerHourMax < c.LiarCarsPerHourMin {
		return fmt.Errorf("invalid liar spawn bounds [%d,%d]", c.LiarCarsPerHourMin, c.LiarCarsPerHourMax)
	}
	if c.LiarDetectionThreshold <= 0 {
		return fmt.Errorf("liar detection threshold must be positive")
	}
	for name, p := range map[string]float64{
		"liar_high_tier_prob":    c.LiarHighTierProb,
		"liar_self_removal_prob": c.LiarSelfRemovalProb,
		"liar_lie_bias":          c.LiarLieBias,
		"vacated_before_bias":    c.VacatedBeforeBias,
		"delivery_failure_rate":  c.DeliveryFailureRate,
	} {
		if p < 0 || p > 1 {
			return fmt.Errorf("%s %f out of [0,1]", name, p)
		}
	}
	if c.ParkingRate < 0 {
		return fmt.Errorf("parking rate must not be negative")
	}
	return nil
}
