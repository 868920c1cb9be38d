// Package delivery provides the in-process implementation of the
// message-delivery capability. It models a best-effort local network: requests
// are queued into per-recipient inboxes and an optional failure rate drops
// individual sends, which the core treats as a missed opportunity.
package delivery

import (
	"parkfair/core/messaging"
	"parkfair/core/model"
)

// CoinFlipper supplies the Bernoulli draws for simulated delivery failures.
type CoinFlipper interface {
	Bernoulli(p float64) bool
}

// Bus is an order-preserving in-process message bus with per-recipient
// inboxes.
type Bus struct {
	inboxes     map[model.AgentID][]model.EmergencyRequest
	failureRate float64
	coin        CoinFlipper
}

// NewBus creates a Bus. With failureRate zero or a nil coin, delivery always
// succeeds.
func NewBus(failureRate float64, coin CoinFlipper) *Bus {
	return &Bus{
		inboxes:     make(map[model.AgentID][]model.EmergencyRequest),
		failureRate: failureRate,
		coin:        coin,
	}
}

// Send queues the request into the recipient's inbox, or reports the delivery
// service as unavailable for this attempt.
func (b *Bus) Send(to model.AgentID, req model.EmergencyRequest) messaging.Result {
	if b.failureRate > 0 && b.coin != nil && b.coin.Bernoulli(b.failureRate) {
		return messaging.Unavailable
	}
	b.inboxes[to] = append(b.inboxes[to], req)
	return messaging.Delivered
}

// HasPending reports whether the recipient has undelivered requests.
func (b *Bus) HasPending(id model.AgentID) bool {
	return len(b.inboxes[id]) > 0
}

// Receive pops the oldest pending request for the recipient.
func (b *Bus) Receive(id model.AgentID) (model.EmergencyRequest, bool) {
	queue := b.inboxes[id]
	if len(queue) == 0 {
		return model.EmergencyRequest{}, false
	}
	req := queue[0]
	b.inboxes[id] = queue[1:]
	return req, true
}
