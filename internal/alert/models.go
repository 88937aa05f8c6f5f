package alert

import (
	"time"

	"safegenie/internal/dispatch"
)

// SendSOSRequest is the inbound alert payload. Recipients and Message are
// sensitive and must never appear in logs, events or stored records.
type SendSOSRequest struct {
	Recipients  []string `json:"recipients"`
	Message     string   `json:"message"`
	SenderEmail string   `json:"senderEmail"`
}

type SendSOSResponse struct {
	Success bool   `json:"success"`
	Via     string `json:"via,omitempty"`
}

// DispatchRecord is the persisted trace of one dispatch, already redacted.
type DispatchRecord struct {
	ID             string
	RequestID      string
	Outcome        string
	Via            string
	Attempts       []dispatch.Attempt
	RecipientCount int
	MessageLen     int
	Latency        time.Duration
	CreatedAt      time.Time
}

const (
	RecordOutcomeDelivered = "delivered"
	RecordOutcomeFailed    = "failed"
)
