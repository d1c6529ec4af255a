// Package events delivers roster change notifications to Kafka.
package events

import "time"

// Topic is the Kafka topic roster events are published to.
const Topic = "roster_events"

// Event types carried in the event_type header and payload.
const (
	TypeSignup     = "roster.signup"
	TypeUnregister = "roster.unregister"
)

// RosterEvent records a single roster mutation. Messages are partitioned by
// activity name so per-activity ordering is preserved.
type RosterEvent struct {
	Type       string    `json:"event_type"`
	Activity   string    `json:"activity"`
	Email      string    `json:"email"`
	OccurredAt time.Time `json:"occurred_at"`
}
