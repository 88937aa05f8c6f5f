package alert

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"safegenie/pkg/metrics"
)

// HistoryRepository persists redacted dispatch records.
type HistoryRepository interface {
	Insert(ctx context.Context, record DispatchRecord) error
}

type PostgresHistory struct {
	db *sql.DB
}

func NewPostgresHistory(db *sql.DB) *PostgresHistory {
	return &PostgresHistory{db: db}
}

func (h *PostgresHistory) Insert(ctx context.Context, record DispatchRecord) error {
	attempts, err := json.Marshal(record.Attempts)
	if err != nil {
		metrics.HistoryWritesTotal.WithLabelValues("failed").Inc()
		return fmt.Errorf("failed to marshal attempts: %w", err)
	}

	if record.ID == "" {
		record.ID = uuid.New().String()
	}

	query := `
		INSERT INTO dispatch_history (
			id, request_id, outcome, via, attempts,
			recipient_count, message_len, latency_ms, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = h.db.ExecContext(ctx, query,
		record.ID,
		record.RequestID,
		record.Outcome,
		record.Via,
		attempts,
		record.RecipientCount,
		record.MessageLen,
		record.Latency.Milliseconds(),
		record.CreatedAt,
	)
	if err != nil {
		metrics.HistoryWritesTotal.WithLabelValues("failed").Inc()
		return fmt.Errorf("failed to insert dispatch record: %w", err)
	}

	metrics.HistoryWritesTotal.WithLabelValues("ok").Inc()
	return nil
}

// NopHistory is used when no database is configured.
type NopHistory struct{}

func (NopHistory) Insert(ctx context.Context, record DispatchRecord) error {
	return nil
}
