package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"safegenie/internal/logger"
	"safegenie/pkg/metrics"
)

// Reporter forwards unexpected failures to an external collector. Reports
// carry the redacted request shape and an error summary only.
type Reporter interface {
	Report(ctx context.Context, redacted RedactedRequest, stage string, errMsg string)
}

type WebhookReporter struct {
	url    string
	client *http.Client
	logger logger.Logger
}

func NewWebhookReporter(url string, timeout time.Duration, log logger.Logger) *WebhookReporter {
	return &WebhookReporter{
		url:    url,
		client: &http.Client{Timeout: timeout},
		logger: log,
	}
}

func (r *WebhookReporter) Report(ctx context.Context, redacted RedactedRequest, stage string, errMsg string) {
	payload := map[string]interface{}{
		"service":         "alert-service",
		"stage":           stage,
		"error":           errMsg,
		"request_id":      redacted.RequestID,
		"recipient_count": redacted.RecipientCount,
		"message_len":     redacted.MessageLen,
		"timestamp":       time.Now().UTC().Format(time.RFC3339),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		metrics.ErrorReportsTotal.WithLabelValues("failed").Inc()
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		metrics.ErrorReportsTotal.WithLabelValues("failed").Inc()
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		metrics.ErrorReportsTotal.WithLabelValues("failed").Inc()
		r.logger.WarnwCtx(ctx, "Error report delivery failed", "error", err)
		return
	}
	resp.Body.Close()

	metrics.ErrorReportsTotal.WithLabelValues("ok").Inc()
}

type NopReporter struct{}

func (NopReporter) Report(ctx context.Context, redacted RedactedRequest, stage string, errMsg string) {
}
