package model

// EmergencyRequest is the payload a claimant broadcasts to parked occupants.
// Only the attributes relevant to willingness scoring travel on the wire.
type EmergencyRequest struct {
	From             AgentID
	HasVacatedBefore bool
	PriorityLevel    int
}
