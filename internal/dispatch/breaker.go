package dispatch

import (
	"context"

	"safegenie/pkg/circuitbreaker"
)

// BreakerChannel decorates a channel with a circuit breaker so a provider
// that keeps failing is skipped quickly instead of burning the send timeout
// on every alert.
type BreakerChannel struct {
	inner   Channel
	breaker *circuitbreaker.Wrapper
}

func NewBreakerChannel(inner Channel, cfg circuitbreaker.Config) *BreakerChannel {
	cfg.Name = inner.Name()
	return &BreakerChannel{
		inner:   inner,
		breaker: circuitbreaker.NewWrapper(cfg),
	}
}

func (c *BreakerChannel) Name() string {
	return c.inner.Name()
}

func (c *BreakerChannel) IsConfigured() bool {
	return c.inner.IsConfigured()
}

func (c *BreakerChannel) Send(ctx context.Context, recipients []string, message string) error {
	_, err := c.breaker.ExecuteWithContext(ctx, func() (interface{}, error) {
		return nil, c.inner.Send(ctx, recipients, message)
	})
	c.breaker.RecordRequest(err == nil)
	return err
}
