package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "parkfair/core/metrics"
	"parkfair/infra/logger"
)

// InfluxSink writes simulation events to an InfluxDB instance using the
// official client. Event times are simulated hours, recorded as fields; the
// point timestamp is the wall-clock write time.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a sink for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	client := influxdb2.NewClientWithOptions(url, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a NopSink
// if the health check fails, so a missing database never fails a run.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.Sink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// Close releases the underlying client.
func (s *InfluxSink) Close() { s.client.Close() }

func (s *InfluxSink) writePoint(p *write.Point) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.writeAPI.WritePoint(ctx, p)
}

func (s *InfluxSink) RecordPark(ev coremetrics.ParkEvent) error {
	p := write.NewPointWithMeasurement("park_event").
		AddTag("agent_id", ev.AgentID).
		AddTag("category", ev.Category).
		AddTag("tier", ev.LiarTier).
		AddField("spot", ev.Spot).
		AddField("sim_time", ev.Time).
		AddField("transferred_hours", ev.TransferredHours).
		AddField("cost", ev.Cost).
		SetTime(time.Now())
	return s.writePoint(p)
}

func (s *InfluxSink) RecordVacate(ev coremetrics.VacateEvent) error {
	p := write.NewPointWithMeasurement("vacate_event").
		AddTag("agent_id", ev.AgentID).
		AddTag("category", ev.Category).
		AddTag("evicted", strconv.FormatBool(ev.Evicted)).
		AddField("spot", ev.Spot).
		AddField("sim_time", ev.Time).
		AddField("remaining_hours", ev.RemainingHours).
		AddField("score", ev.Score).
		SetTime(time.Now())
	return s.writePoint(p)
}

func (s *InfluxSink) RecordRefusal(ev coremetrics.RefusalEvent) error {
	p := write.NewPointWithMeasurement("refusal_event").
		AddTag("agent_id", ev.AgentID).
		AddTag("requester_id", ev.RequesterID).
		AddField("score", ev.Score).
		AddField("sim_time", ev.Time).
		SetTime(time.Now())
	return s.writePoint(p)
}

func (s *InfluxSink) RecordRejected(ev coremetrics.RejectedEvent) error {
	p := write.NewPointWithMeasurement("rejected_event").
		AddTag("agent_id", ev.AgentID).
		AddField("sim_time", ev.Time).
		SetTime(time.Now())
	return s.writePoint(p)
}

func (s *InfluxSink) RecordFlag(ev coremetrics.FlagEvent) error {
	p := write.NewPointWithMeasurement("flag_event").
		AddTag("agent_id", ev.AgentID).
		AddTag("category", ev.Category).
		AddField("suspicion", ev.Suspicion).
		AddField("sim_time", ev.Time).
		SetTime(time.Now())
	return s.writePoint(p)
}

func (s *InfluxSink) RecordDeparture(ev coremetrics.DepartureEvent) error {
	p := write.NewPointWithMeasurement("departure_event").
		AddTag("agent_id", ev.AgentID).
		AddField("sim_time", ev.Time).
		SetTime(time.Now())
	return s.writePoint(p)
}

func (s *InfluxSink) RecordSummary(ev coremetrics.SummaryEvent) error {
	p := write.NewPointWithMeasurement("run_summary").
		AddTag("run_id", ev.RunID).
		AddField("cycles", ev.Cycles).
		AddField("genuine_emergencies", ev.GenuineEmergencies).
		AddField("low_tier_liars", ev.LowTierLiars).
		AddField("high_tier_liars", ev.HighTierLiars).
		AddField("total_liar_cost", ev.TotalLiarCost).
		AddField("total_transferred_hours", ev.TotalTransferredHours).
		AddField("total_refusals", ev.TotalRefusals).
		AddField("total_rejected", ev.TotalRejected).
		SetTime(time.Now())
	return s.writePoint(p)
}
