package models

import "time"

const (
	EventTypeDispatchCompleted = "sos.dispatch.completed"
	EventTypeDispatchFailed    = "sos.dispatch.failed"
)

// MessageEnvelope wraps every event published to the broker. The payload is
// always a redacted shape: counts and lengths, never recipient addresses or
// message text.
type MessageEnvelope struct {
	ID        string                 `json:"id"`
	Source    string                 `json:"source"`
	Type      string                 `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Payload   map[string]interface{} `json:"payload"`
}
