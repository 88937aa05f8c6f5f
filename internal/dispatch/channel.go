package dispatch

import (
	"context"
	"time"
)

// Channel is one concrete mechanism for delivering an alert. Channels are
// stateless per request; credentials are injected once at construction and
// immutable afterwards.
type Channel interface {
	Name() string
	IsConfigured() bool
	Send(ctx context.Context, recipients []string, message string) error
}

type Outcome string

const (
	OutcomeSuccess          Outcome = "success"
	OutcomeTransientFailure Outcome = "transient_failure"
	OutcomeConfigError      Outcome = "configuration_error"
)

// Attempt records one channel try. Appended, never mutated. The Error field
// is sanitized at construction: substrings shaped like recipient addresses
// are masked before the record can reach a log line or storage.
type Attempt struct {
	Channel   string        `json:"channel"`
	Timestamp time.Time     `json:"timestamp"`
	Outcome   Outcome       `json:"outcome"`
	Latency   time.Duration `json:"latency"`
	Error     string        `json:"error,omitempty"`
}

// Result is the terminal state of one dispatch: the channel that accepted the
// alert (empty on overall failure) and every attempt made along the way.
type Result struct {
	Via      string
	Attempts []Attempt
}
