package metrics

import (
	"errors"

	coremetrics "parkfair/core/metrics"
)

// MultiSink fans every event out to several sinks, collecting errors.
type MultiSink struct {
	sinks []coremetrics.Sink
}

// NewMultiSink creates a MultiSink.
func NewMultiSink(sinks ...coremetrics.Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

func (m *MultiSink) each(f func(coremetrics.Sink) error) error {
	var errs []error
	for _, s := range m.sinks {
		if err := f(s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *MultiSink) RecordPark(ev coremetrics.ParkEvent) error {
	return m.each(func(s coremetrics.Sink) error { return s.RecordPark(ev) })
}

func (m *MultiSink) RecordVacate(ev coremetrics.VacateEvent) error {
	return m.each(func(s coremetrics.Sink) error { return s.RecordVacate(ev) })
}

func (m *MultiSink) RecordRefusal(ev coremetrics.RefusalEvent) error {
	return m.each(func(s coremetrics.Sink) error { return s.RecordRefusal(ev) })
}

func (m *MultiSink) RecordRejected(ev coremetrics.RejectedEvent) error {
	return m.each(func(s coremetrics.Sink) error { return s.RecordRejected(ev) })
}

func (m *MultiSink) RecordFlag(ev coremetrics.FlagEvent) error {
	return m.each(func(s coremetrics.Sink) error { return s.RecordFlag(ev) })
}

func (m *MultiSink) RecordDeparture(ev coremetrics.DepartureEvent) error {
	return m.each(func(s coremetrics.Sink) error { return s.RecordDeparture(ev) })
}

func (m *MultiSink) RecordSummary(ev coremetrics.SummaryEvent) error {
	return m.each(func(s coremetrics.Sink) error { return s.RecordSummary(ev) })
}
