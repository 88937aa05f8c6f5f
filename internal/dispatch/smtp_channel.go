package dispatch

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"safegenie/internal/config"
	"safegenie/internal/constants"
)

// SMTPChannel delivers the alert through an SMTP relay (Brevo, Gmail).
type SMTPChannel struct {
	cfg    config.SMTPChannelConfig
	dryRun bool

	// swappable for tests; net/smtp offers no context support
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPChannel(cfg config.SMTPChannelConfig, dryRun bool) *SMTPChannel {
	return &SMTPChannel{
		cfg:      cfg,
		dryRun:   dryRun,
		sendMail: smtp.SendMail,
	}
}

func (c *SMTPChannel) Name() string {
	return constants.ChannelSMTP
}

func (c *SMTPChannel) IsConfigured() bool {
	return c.cfg.Host != "" && c.cfg.User != "" && c.cfg.Password != "" && c.cfg.From != ""
}

func (c *SMTPChannel) Send(ctx context.Context, recipients []string, message string) error {
	emails := FilterRecipients(recipients, KindEmail)
	if len(emails) == 0 {
		return fmt.Errorf("smtp channel: no email recipients")
	}

	if c.dryRun {
		return nil
	}

	addr := fmt.Sprintf("%s:%d", c.cfg.Host, c.cfg.Port)
	auth := smtp.PlainAuth("", c.cfg.User, c.cfg.Password, c.cfg.Host)

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", c.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", strings.Join(emails, ","))
	fmt.Fprintf(&msg, "Subject: %s\r\n", constants.AlertSubject)
	msg.WriteString("\r\n")
	msg.WriteString(message)

	// smtp.SendMail blocks without context support; run it aside and honor
	// the dispatcher's per-call deadline ourselves.
	done := make(chan error, 1)
	go func() {
		done <- c.sendMail(addr, auth, c.cfg.From, emails, []byte(msg.String()))
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("smtp channel: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp channel: send failed: %w", err)
		}
		return nil
	}
}
