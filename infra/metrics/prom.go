package metrics

import (
	coremetrics "parkfair/core/metrics"

	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records simulation events in Prometheus metrics.
type PromSink struct {
	parked      *prometheus.CounterVec
	vacated     *prometheus.CounterVec
	refusals    prometheus.Counter
	rejected    prometheus.Counter
	flagged     prometheus.Counter
	departures  prometheus.Counter
	liarCost    prometheus.Counter
	transferred prometheus.Counter
}

// NewPromSink registers simulation metrics on the default Prometheus
// registerer. The metrics server is started separately.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer. A nil
// registerer defaults to the global one.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		parked: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "parkfair_parked_total",
			Help: "Agents that took possession of a cell, by category",
		}, []string{"category", "tier"}),
		vacated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "parkfair_vacated_total",
			Help: "Cells released, split by voluntary departure and eviction",
		}, []string{"evicted"}),
		refusals: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "parkfair_refusals_total",
			Help: "Occupants scoring at or below the acceptance threshold",
		}),
		rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "parkfair_rejected_claimants_total",
			Help: "Claimants that found neither a free cell nor a willing occupant",
		}),
		flagged: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "parkfair_flagged_total",
			Help: "Agents flagged by the liar detector",
		}),
		departures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "parkfair_unparked_departures_total",
			Help: "Claimants that left without parking after the grace period",
		}),
		liarCost: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "parkfair_liar_cost_total",
			Help: "Financial cost caused by liars inheriting prepaid time",
		}),
		transferred: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "parkfair_transferred_hours_total",
			Help: "Prepaid hours handed over by vacating normal occupants",
		}),
	}
	for _, c := range []prometheus.Collector{
		s.parked, s.vacated, s.refusals, s.rejected,
		s.flagged, s.departures, s.liarCost, s.transferred,
	} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return nil, err
			}
		}
	}
	return s, nil
}

func (s *PromSink) RecordPark(ev coremetrics.ParkEvent) error {
	s.parked.WithLabelValues(ev.Category, ev.LiarTier).Inc()
	if ev.Cost > 0 {
		s.liarCost.Add(ev.Cost)
	}
	return nil
}

func (s *PromSink) RecordVacate(ev coremetrics.VacateEvent) error {
	label := "false"
	if ev.Evicted {
		label = "true"
	}
	s.vacated.WithLabelValues(label).Inc()
	if ev.Category == "normal" && ev.RemainingHours > 0 {
		s.transferred.Add(ev.RemainingHours)
	}
	return nil
}

func (s *PromSink) RecordRefusal(coremetrics.RefusalEvent) error {
	s.refusals.Inc()
	return nil
}

func (s *PromSink) RecordRejected(coremetrics.RejectedEvent) error {
	s.rejected.Inc()
	return nil
}

func (s *PromSink) RecordFlag(coremetrics.FlagEvent) error {
	s.flagged.Inc()
	return nil
}

func (s *PromSink) RecordDeparture(coremetrics.DepartureEvent) error {
	s.departures.Inc()
	return nil
}

func (s *PromSink) RecordSummary(coremetrics.SummaryEvent) error { return nil }
