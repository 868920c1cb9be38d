package sim

import (
	"parkfair/core/messaging"
	"parkfair/core/model"
	"parkfair/infra/logger"
)

// memSender is a minimal in-memory Sender for protocol tests.
type memSender struct {
	inboxes map[model.AgentID][]model.EmergencyRequest
	down    bool
}

func newMemSender() *memSender {
	return &memSender{inboxes: make(map[model.AgentID][]model.EmergencyRequest)}
}

func (m *memSender) Send(to model.AgentID, req model.EmergencyRequest) messaging.Result {
	if m.down {
		return messaging.Unavailable
	}
	m.inboxes[to] = append(m.inboxes[to], req)
	return messaging.Delivered
}

func (m *memSender) HasPending(id model.AgentID) bool { return len(m.inboxes[id]) > 0 }

func (m *memSender) Receive(id model.AgentID) (model.EmergencyRequest, bool) {
	q := m.inboxes[id]
	if len(q) == 0 {
		return model.EmergencyRequest{}, false
	}
	m.inboxes[id] = q[1:]
	return q[0], true
}

func newTestAggregator() *Aggregator {
	return NewAggregator(logger.NopLogger{}, nil, nil)
}

func testConfig() Config {
	cfg := Config{
		GridWidth:  5,
		GridHeight: 4,
		Seed:       7,
	}
	cfg.SetDefaults()
	return cfg
}
