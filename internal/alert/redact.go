package alert

// RedactedRequest is the only request shape that may cross into logs, events
// or storage. It is built once at ingestion so no later code path can reach
// the raw recipients or message text by accident.
type RedactedRequest struct {
	RequestID      string
	RecipientCount int
	MessageLen     int
}

func Redact(requestID string, req SendSOSRequest) RedactedRequest {
	return RedactedRequest{
		RequestID:      requestID,
		RecipientCount: len(req.Recipients),
		MessageLen:     len(req.Message),
	}
}

// LogFields returns the redacted shape as structured logging key/value pairs.
func (r RedactedRequest) LogFields() []interface{} {
	return []interface{}{
		"recipient_count", r.RecipientCount,
		"message_len", r.MessageLen,
	}
}
