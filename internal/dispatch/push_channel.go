package dispatch

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"safegenie/internal/config"
	"safegenie/internal/constants"
)

// pushSender is the slice of messaging.Client the channel uses.
type pushSender interface {
	SendEachForMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error)
}

// PushChannel delivers the alert as an FCM notification to device token
// recipients.
type PushChannel struct {
	cfg    config.PushChannelConfig
	sender pushSender
	dryRun bool
}

// NewPushChannel initializes the Firebase app eagerly so a broken credentials
// file surfaces at startup instead of on the first alert.
func NewPushChannel(ctx context.Context, cfg config.PushChannelConfig, dryRun bool) (*PushChannel, error) {
	ch := &PushChannel{cfg: cfg, dryRun: dryRun}
	if !ch.IsConfigured() {
		return ch, nil
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID},
		option.WithCredentialsFile(cfg.CredentialsFile))
	if err != nil {
		return nil, fmt.Errorf("push channel: failed to initialize firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("push channel: failed to create messaging client: %w", err)
	}
	ch.sender = client

	return ch, nil
}

func (c *PushChannel) Name() string {
	return constants.ChannelPush
}

func (c *PushChannel) IsConfigured() bool {
	return c.cfg.CredentialsFile != "" && c.cfg.ProjectID != ""
}

func (c *PushChannel) Send(ctx context.Context, recipients []string, message string) error {
	tokens := FilterRecipients(recipients, KindToken)
	if len(tokens) == 0 {
		return fmt.Errorf("push channel: no device token recipients")
	}

	if c.dryRun {
		return nil
	}

	resp, err := c.sender.SendEachForMulticast(ctx, &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: constants.AlertSubject,
			Body:  message,
		},
	})
	if err != nil {
		return fmt.Errorf("push channel: multicast failed: %w", err)
	}

	// Partial delivery still counts: the alert reached at least one device.
	if resp.SuccessCount == 0 {
		return fmt.Errorf("push channel: all %d token sends failed", resp.FailureCount)
	}

	return nil
}
