// Package sim implements the discrete-time parking-lot simulation: the spot
// grid, the willingness scorer, the negotiation protocol that frees cells for
// emergency claimants, the liar detector and the cycle engine driving agent
// reflexes. All state mutation happens cooperatively within a cycle; there is
// no concurrent access to shared state.
package sim
