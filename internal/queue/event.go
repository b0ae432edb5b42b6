// Package queue defines message payloads exchanged over the message broker
// and the background consumer that records them.
package queue

// ImportCompletedEvent is published when a bulk show import finishes. It
// carries the outcome counts and per-row errors so downstream consumers can
// build an audit trail without querying the primary database.
type ImportCompletedEvent struct {
	ActorID     string   `json:"actor_id"`
	Total       int      `json:"total"`
	Successful  int      `json:"successful"`
	Failed      int      `json:"failed"`
	Errors      []string `json:"errors,omitempty"`
	CompletedAt string   `json:"completed_at"`
}
