package dispatch

import (
	"context"
	"errors"
	"testing"

	"firebase.google.com/go/v4/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"safegenie/internal/config"
	"safegenie/internal/constants"
)

type fakePushSender struct {
	got  *messaging.MulticastMessage
	resp *messaging.BatchResponse
	err  error
}

func (s *fakePushSender) SendEachForMulticast(ctx context.Context, msg *messaging.MulticastMessage) (*messaging.BatchResponse, error) {
	s.got = msg
	return s.resp, s.err
}

func pushTestChannel(sender pushSender) *PushChannel {
	return &PushChannel{
		cfg: config.PushChannelConfig{
			CredentialsFile: "/etc/safegenie/fcm.json",
			ProjectID:       "safegenie-test",
		},
		sender: sender,
	}
}

const testToken = "dGhpc2lzYXRva2VuX3RoaXNpc2F0b2tlbl90aGlzaXNhdG9rZW4"

func TestPushChannelSend(t *testing.T) {
	sender := &fakePushSender{resp: &messaging.BatchResponse{SuccessCount: 1}}
	ch := pushTestChannel(sender)

	err := ch.Send(context.Background(), []string{testToken, "guardian@example.com"}, "help me")
	require.NoError(t, err)

	require.NotNil(t, sender.got)
	assert.Equal(t, []string{testToken}, sender.got.Tokens)
	assert.Equal(t, constants.AlertSubject, sender.got.Notification.Title)
	assert.Equal(t, "help me", sender.got.Notification.Body)
}

func TestPushChannelSendPartialDeliveryCounts(t *testing.T) {
	sender := &fakePushSender{resp: &messaging.BatchResponse{SuccessCount: 1, FailureCount: 2}}
	ch := pushTestChannel(sender)

	err := ch.Send(context.Background(), []string{testToken}, "help")
	assert.NoError(t, err)
}

func TestPushChannelSendAllTokensFailed(t *testing.T) {
	sender := &fakePushSender{resp: &messaging.BatchResponse{SuccessCount: 0, FailureCount: 3}}
	ch := pushTestChannel(sender)

	err := ch.Send(context.Background(), []string{testToken}, "help")
	require.Error(t, err)
}

func TestPushChannelSendProviderError(t *testing.T) {
	sender := &fakePushSender{err: errors.New("fcm unavailable")}
	ch := pushTestChannel(sender)

	err := ch.Send(context.Background(), []string{testToken}, "help")
	require.Error(t, err)
}

func TestPushChannelSendNoTokenRecipients(t *testing.T) {
	ch := pushTestChannel(&fakePushSender{})

	err := ch.Send(context.Background(), []string{"guardian@example.com"}, "help")
	require.Error(t, err)
}

func TestPushChannelIsConfigured(t *testing.T) {
	assert.True(t, pushTestChannel(&fakePushSender{}).IsConfigured())

	ch, err := NewPushChannel(context.Background(), config.PushChannelConfig{}, false)
	require.NoError(t, err)
	assert.False(t, ch.IsConfigured())
}
