package location

import (
	"context"
	"sync"
	"time"

	"safegenie/internal/logger"
	"safegenie/pkg/metrics"
)

type TrackerConfig struct {
	SampleInterval  time.Duration
	RetentionWindow time.Duration
	LocateTimeout   time.Duration
}

// Tracker keeps a rolling window of recent position samples. A single
// background goroutine is the only writer; readers get filtered copies, so
// a snapshot never contains a sample older than the retention window.
type Tracker struct {
	provider Provider
	logger   logger.Logger
	cfg      TrackerConfig

	mu      sync.RWMutex
	samples []Sample

	now func() time.Time
}

func NewTracker(provider Provider, cfg TrackerConfig, log logger.Logger) *Tracker {
	return &Tracker{
		provider: provider,
		logger:   log,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Run samples once immediately and then on every interval tick until the
// context is canceled. A failed tick is logged and skipped; the loop and the
// existing timeline survive.
func (t *Tracker) Run(ctx context.Context) error {
	t.sampleOnce(ctx)

	ticker := time.NewTicker(t.cfg.SampleInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.logger.InfowCtx(ctx, "Location tracker stopped")
			return ctx.Err()
		case <-ticker.C:
			t.sampleOnce(ctx)
		}
	}
}

func (t *Tracker) sampleOnce(ctx context.Context) {
	locateCtx, cancel := context.WithTimeout(ctx, t.cfg.LocateTimeout)
	defer cancel()

	sample, err := t.provider.Locate(locateCtx)
	if err != nil {
		metrics.LocationSamplesTotal.WithLabelValues("failed").Inc()
		t.logger.WarnwCtx(ctx, "Location sampling failed, keeping existing timeline", "error", err)
		return
	}

	t.record(sample)
	metrics.LocationSamplesTotal.WithLabelValues("ok").Inc()
}

// record appends a sample and evicts everything older than the retention
// window in the same critical section.
func (t *Tracker) record(sample Sample) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.samples = append(t.samples, sample)

	cutoff := t.now().Add(-t.cfg.RetentionWindow)
	kept := t.samples[:0]
	for _, s := range t.samples {
		if s.Timestamp.After(cutoff) {
			kept = append(kept, s)
		}
	}
	t.samples = kept

	metrics.LocationTimelineSize.Set(float64(len(t.samples)))
}

// Timeline returns a chronological snapshot of the retained samples,
// re-filtered against the window at the instant of the call.
func (t *Tracker) Timeline() []Sample {
	t.mu.RLock()
	defer t.mu.RUnlock()

	cutoff := t.now().Add(-t.cfg.RetentionWindow)
	out := make([]Sample, 0, len(t.samples))
	for _, s := range t.samples {
		if s.Timestamp.After(cutoff) {
			out = append(out, s)
		}
	}
	return out
}

// Current returns the most recent sample, if any fix has succeeded yet.
func (t *Tracker) Current() (Sample, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if len(t.samples) == 0 {
		return Sample{}, false
	}
	return t.samples[len(t.samples)-1], true
}
