// Package messaging declares the message-delivery capability the simulation
// core consumes. The concrete transport lives in infra/delivery; the core only
// sees delivery outcomes and per-recipient inboxes.
package messaging

import "parkfair/core/model"

// Result is the outcome of a send attempt. An unavailable delivery service is
// a missed opportunity for the sender, never an error.
type Result int

const (
	Delivered Result = iota
	Unavailable
)

func (r Result) String() string {
	if r == Delivered {
		return "delivered"
	}
	return "unavailable"
}

// Sender delivers emergency requests to parked agents. Delivery is synchronous
// within a cycle: a request sent earlier in a cycle is observable by its
// recipient in the same cycle.
type Sender interface {
	Send(to model.AgentID, req model.EmergencyRequest) Result
	HasPending(id model.AgentID) bool
	Receive(id model.AgentID) (model.EmergencyRequest, bool)
}
