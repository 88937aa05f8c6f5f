package alert

import (
	"context"
	"time"

	"github.com/google/uuid"

	"safegenie/internal/broker"
	"safegenie/internal/logger"
	"safegenie/pkg/metrics"
	"safegenie/pkg/models"
	"safegenie/pkg/retry"
)

// EventPublisher emits dispatch lifecycle events to the broker. Publishing is
// best effort: a broker outage never fails the alert itself.
type EventPublisher struct {
	producer broker.Producer
	topic    string
	policy   retry.Policy
	logger   logger.Logger
}

func NewEventPublisher(producer broker.Producer, topic string, policy retry.Policy, log logger.Logger) *EventPublisher {
	return &EventPublisher{
		producer: producer,
		topic:    topic,
		policy:   policy,
		logger:   log,
	}
}

func (p *EventPublisher) PublishDispatch(ctx context.Context, record DispatchRecord) {
	eventType := models.EventTypeDispatchCompleted
	if record.Outcome != RecordOutcomeDelivered {
		eventType = models.EventTypeDispatchFailed
	}

	envelope := models.MessageEnvelope{
		ID:        uuid.New().String(),
		Source:    "alert-service",
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Payload: map[string]interface{}{
			"request_id":      record.RequestID,
			"outcome":         record.Outcome,
			"via":             record.Via,
			"attempt_count":   len(record.Attempts),
			"recipient_count": record.RecipientCount,
			"message_len":     record.MessageLen,
			"latency_ms":      record.Latency.Milliseconds(),
		},
	}

	err := retry.Retry(ctx, p.policy, func() error {
		return p.producer.Publish(ctx, p.topic, envelope)
	})
	if err != nil {
		metrics.DispatchEventsPublishedTotal.WithLabelValues("failed").Inc()
		p.logger.WarnwCtx(ctx, "Failed to publish dispatch event",
			"event_type", eventType,
			"error", err,
		)
		return
	}

	metrics.DispatchEventsPublishedTotal.WithLabelValues("ok").Inc()
}
