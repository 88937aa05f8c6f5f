package dispatch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"safegenie/internal/logger"
	pkgerrors "safegenie/pkg/errors"
)

type fakeChannel struct {
	name       string
	configured bool
	err        error
	calls      int
}

func (c *fakeChannel) Name() string       { return c.name }
func (c *fakeChannel) IsConfigured() bool { return c.configured }

func (c *fakeChannel) Send(ctx context.Context, recipients []string, message string) error {
	c.calls++
	return c.err
}

func TestDispatcherExcludesUnconfiguredChannels(t *testing.T) {
	primary := &fakeChannel{name: "api", configured: false}
	secondary := &fakeChannel{name: "smtp", configured: true}

	d := NewDispatcher([]PrioritizedChannel{
		{Channel: primary, Priority: 1},
		{Channel: secondary, Priority: 2},
	}, time.Second, logger.NopLogger())

	assert.Equal(t, []string{"smtp"}, d.Configured())

	result, err := d.Dispatch(context.Background(), []string{"guardian@example.com"}, "help")
	require.NoError(t, err)
	assert.Equal(t, "smtp", result.Via)
	assert.Zero(t, primary.calls)
}

func TestDispatcherNoChannelsConfigured(t *testing.T) {
	d := NewDispatcher([]PrioritizedChannel{
		{Channel: &fakeChannel{name: "api"}, Priority: 1},
	}, time.Second, logger.NopLogger())

	_, err := d.Dispatch(context.Background(), []string{"guardian@example.com"}, "help")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsConfiguration(err))
}

func TestDispatcherPriorityOrder(t *testing.T) {
	first := &fakeChannel{name: "smtp", configured: true}
	second := &fakeChannel{name: "api", configured: true}

	// api has the lower priority value so it must be attempted first even
	// though it was registered second.
	d := NewDispatcher([]PrioritizedChannel{
		{Channel: first, Priority: 2},
		{Channel: second, Priority: 1},
	}, time.Second, logger.NopLogger())

	assert.Equal(t, []string{"api", "smtp"}, d.Configured())

	result, err := d.Dispatch(context.Background(), []string{"guardian@example.com"}, "help")
	require.NoError(t, err)
	assert.Equal(t, "api", result.Via)
	assert.Zero(t, first.calls)
}

func TestDispatcherFallsThroughOnFailure(t *testing.T) {
	failing := &fakeChannel{name: "api", configured: true, err: errors.New("provider returned status 502")}
	working := &fakeChannel{name: "smtp", configured: true}

	d := NewDispatcher([]PrioritizedChannel{
		{Channel: failing, Priority: 1},
		{Channel: working, Priority: 2},
	}, time.Second, logger.NopLogger())

	result, err := d.Dispatch(context.Background(), []string{"guardian@example.com"}, "help")
	require.NoError(t, err)

	assert.Equal(t, "smtp", result.Via)
	require.Len(t, result.Attempts, 2)
	assert.Equal(t, OutcomeTransientFailure, result.Attempts[0].Outcome)
	assert.Contains(t, result.Attempts[0].Error, "502")
	assert.Equal(t, OutcomeSuccess, result.Attempts[1].Outcome)
	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 1, working.calls)
}

func TestDispatcherExhaustsAllChannels(t *testing.T) {
	chErr := errors.New("connection refused")
	first := &fakeChannel{name: "api", configured: true, err: chErr}
	second := &fakeChannel{name: "smtp", configured: true, err: chErr}

	d := NewDispatcher([]PrioritizedChannel{
		{Channel: first, Priority: 1},
		{Channel: second, Priority: 2},
	}, time.Second, logger.NopLogger())

	result, err := d.Dispatch(context.Background(), []string{"guardian@example.com"}, "help")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsChannel(err))
	assert.Empty(t, result.Via)
	require.Len(t, result.Attempts, 2)
	for _, attempt := range result.Attempts {
		assert.Equal(t, OutcomeTransientFailure, attempt.Outcome)
	}

	// Each channel is tried exactly once per dispatch.
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
}

func TestDispatcherAppliesSendTimeout(t *testing.T) {
	slow := &slowChannel{name: "api"}

	d := NewDispatcher([]PrioritizedChannel{
		{Channel: slow, Priority: 1},
	}, 10*time.Millisecond, logger.NopLogger())

	start := time.Now()
	_, err := d.Dispatch(context.Background(), []string{"guardian@example.com"}, "help")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsChannel(err))
	assert.Less(t, time.Since(start), time.Second)
}

type slowChannel struct {
	name string
}

func (c *slowChannel) Name() string       { return c.name }
func (c *slowChannel) IsConfigured() bool { return true }

func (c *slowChannel) Send(ctx context.Context, recipients []string, message string) error {
	<-ctx.Done()
	return ctx.Err()
}
