package dispatch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"safegenie/pkg/circuitbreaker"
)

func TestBreakerChannelPassesThrough(t *testing.T) {
	inner := &fakeChannel{name: "api", configured: true}
	ch := NewBreakerChannel(inner, circuitbreaker.DefaultConfig("api"))

	assert.Equal(t, "api", ch.Name())
	assert.True(t, ch.IsConfigured())

	err := ch.Send(context.Background(), []string{"guardian@example.com"}, "help")
	require.NoError(t, err)
	assert.Equal(t, 1, inner.calls)
}

func TestBreakerChannelOpensAfterFailures(t *testing.T) {
	inner := &fakeChannel{name: "api", configured: true, err: errors.New("connection refused")}

	cfg := circuitbreaker.Config{
		Name:        "api",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 2
		},
	}
	ch := NewBreakerChannel(inner, cfg)

	for i := 0; i < 2; i++ {
		require.Error(t, ch.Send(context.Background(), []string{"guardian@example.com"}, "help"))
	}

	// The open breaker rejects without invoking the channel; the dispatcher
	// treats the rejection as one more transient failure and falls through.
	callsBefore := inner.calls
	err := ch.Send(context.Background(), []string{"guardian@example.com"}, "help")
	require.Error(t, err)
	assert.Equal(t, callsBefore, inner.calls)
}
