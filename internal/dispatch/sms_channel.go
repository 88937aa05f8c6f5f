package dispatch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"safegenie/internal/config"
	"safegenie/internal/constants"
)

// SMSChannel delivers the alert through the Twilio Messages API, one request
// per phone recipient.
type SMSChannel struct {
	cfg    config.SMSChannelConfig
	client *http.Client
	dryRun bool
}

func NewSMSChannel(cfg config.SMSChannelConfig, dryRun bool) *SMSChannel {
	return &SMSChannel{
		cfg:    cfg,
		client: &http.Client{},
		dryRun: dryRun,
	}
}

func (c *SMSChannel) Name() string {
	return constants.ChannelSMS
}

func (c *SMSChannel) IsConfigured() bool {
	return c.cfg.AccountSID != "" && c.cfg.AuthToken != "" && c.cfg.FromNumber != ""
}

func (c *SMSChannel) Send(ctx context.Context, recipients []string, message string) error {
	phones := FilterRecipients(recipients, KindPhone)
	if len(phones) == 0 {
		return fmt.Errorf("sms channel: no phone recipients")
	}

	if c.dryRun {
		return nil
	}

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", c.cfg.BaseURL, c.cfg.AccountSID)

	for i, phone := range phones {
		form := url.Values{}
		form.Set("To", phone)
		form.Set("From", c.cfg.FromNumber)
		form.Set("Body", message)

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
		if err != nil {
			return fmt.Errorf("sms channel: failed to create request: %w", err)
		}
		req.SetBasicAuth(c.cfg.AccountSID, c.cfg.AuthToken)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := c.client.Do(req)
		if err != nil {
			return fmt.Errorf("sms channel: request %d failed: %w", i+1, err)
		}
		resp.Body.Close()

		if resp.StatusCode < constants.HTTPStatusOKMin || resp.StatusCode >= constants.HTTPStatusOKMax {
			return fmt.Errorf("sms channel: provider returned status %d for recipient %d", resp.StatusCode, i+1)
		}
	}

	return nil
}
