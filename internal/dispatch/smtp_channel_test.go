package dispatch

import (
	"context"
	"errors"
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"safegenie/internal/config"
	"safegenie/internal/constants"
)

func smtpTestConfig() config.SMTPChannelConfig {
	return config.SMTPChannelConfig{
		Host:     "smtp-relay.example.com",
		Port:     587,
		User:     "relay-user",
		Password: "relay-pass",
		From:     "alerts@example.com",
	}
}

func TestSMTPChannelIsConfigured(t *testing.T) {
	ch := NewSMTPChannel(smtpTestConfig(), false)
	assert.True(t, ch.IsConfigured())

	cfg := smtpTestConfig()
	cfg.Password = ""
	assert.False(t, NewSMTPChannel(cfg, false).IsConfigured())
}

func TestSMTPChannelSend(t *testing.T) {
	ch := NewSMTPChannel(smtpTestConfig(), false)

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	ch.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr = addr
		gotFrom = from
		gotTo = to
		gotMsg = msg
		return nil
	}

	err := ch.Send(context.Background(), []string{"guardian@example.com", "+14155552671"}, "help me")
	require.NoError(t, err)

	assert.Equal(t, "smtp-relay.example.com:587", gotAddr)
	assert.Equal(t, "alerts@example.com", gotFrom)
	assert.Equal(t, []string{"guardian@example.com"}, gotTo)
	assert.Contains(t, string(gotMsg), "Subject: "+constants.AlertSubject)
	assert.Contains(t, string(gotMsg), "help me")
}

func TestSMTPChannelSendRelayFailure(t *testing.T) {
	ch := NewSMTPChannel(smtpTestConfig(), false)
	ch.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		return errors.New("535 authentication failed")
	}

	err := ch.Send(context.Background(), []string{"guardian@example.com"}, "help")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "535")
}

func TestSMTPChannelSendHonorsContext(t *testing.T) {
	ch := NewSMTPChannel(smtpTestConfig(), false)
	block := make(chan struct{})
	defer close(block)
	ch.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		<-block
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ch.Send(ctx, []string{"guardian@example.com"}, "help")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSMTPChannelDryRun(t *testing.T) {
	ch := NewSMTPChannel(smtpTestConfig(), true)
	ch.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		t.Fatal("dry run must not reach the relay")
		return nil
	}

	err := ch.Send(context.Background(), []string{"guardian@example.com"}, "help")
	require.NoError(t, err)
}
