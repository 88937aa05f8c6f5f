package dispatch

import (
	"context"
	"sort"
	"time"

	"safegenie/internal/logger"
	pkgerrors "safegenie/pkg/errors"
	"safegenie/pkg/metrics"
)

// PrioritizedChannel pairs a channel with its position in the fallback order.
// Lower priority values are attempted first.
type PrioritizedChannel struct {
	Channel  Channel
	Priority int
}

// Dispatcher owns the ordered channel chain. Channels whose credentials are
// missing are excluded at construction, not attempted and failed.
type Dispatcher struct {
	channels    []Channel
	sendTimeout time.Duration
	logger      logger.Logger
	now         func() time.Time
}

func NewDispatcher(channels []PrioritizedChannel, sendTimeout time.Duration, log logger.Logger) *Dispatcher {
	sort.SliceStable(channels, func(i, j int) bool {
		return channels[i].Priority < channels[j].Priority
	})

	configured := make([]Channel, 0, len(channels))
	for _, pc := range channels {
		if !pc.Channel.IsConfigured() {
			log.Infow("Notification channel not configured, excluding from chain", "channel", pc.Channel.Name())
			continue
		}
		configured = append(configured, pc.Channel)
	}

	return &Dispatcher{
		channels:    configured,
		sendTimeout: sendTimeout,
		logger:      log,
		now:         time.Now,
	}
}

// Configured returns the names of the channels in attempt order.
func (d *Dispatcher) Configured() []string {
	names := make([]string, len(d.channels))
	for i, ch := range d.channels {
		names[i] = ch.Name()
	}
	return names
}

// Dispatch tries each configured channel in priority order under a bounded
// per-call timeout, stopping at the first success. A channel is never retried
// within one dispatch; falling through to the next channel is the only retry
// mechanism. The whole sequence has no outer deadline, so the caller always
// gets a definitive success or failure.
func (d *Dispatcher) Dispatch(ctx context.Context, recipients []string, message string) (*Result, error) {
	if len(d.channels) == 0 {
		return &Result{}, pkgerrors.ErrConfiguration
	}

	result := &Result{
		Attempts: make([]Attempt, 0, len(d.channels)),
	}

	for _, ch := range d.channels {
		sendCtx, cancel := context.WithTimeout(ctx, d.sendTimeout)
		start := d.now()
		err := ch.Send(sendCtx, recipients, message)
		latency := d.now().Sub(start)
		cancel()

		attempt := Attempt{
			Channel:   ch.Name(),
			Timestamp: start,
			Latency:   latency,
		}

		if err == nil {
			attempt.Outcome = OutcomeSuccess
			result.Attempts = append(result.Attempts, attempt)
			result.Via = ch.Name()
			metrics.ObserveDispatchAttempt(ch.Name(), string(OutcomeSuccess), latency)
			d.logger.InfowCtx(ctx, "Alert delivered",
				"channel", ch.Name(),
				"latency", latency,
				"attempt", len(result.Attempts),
			)
			return result, nil
		}

		// Network errors, provider rejections and timeouts are all treated
		// as transient: the next channel is the recovery path.
		attempt.Outcome = OutcomeTransientFailure
		attempt.Error = sanitizeError(err)
		result.Attempts = append(result.Attempts, attempt)
		metrics.ObserveDispatchAttempt(ch.Name(), string(OutcomeTransientFailure), latency)
		d.logger.WarnwCtx(ctx, "Channel attempt failed, falling through",
			"channel", ch.Name(),
			"latency", latency,
			"error", attempt.Error,
		)
	}

	metrics.DispatchExhaustedTotal.Inc()
	return result, pkgerrors.ErrChannel.WithDetail("attempts", len(result.Attempts))
}
