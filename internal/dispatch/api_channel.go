package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"safegenie/internal/config"
	"safegenie/internal/constants"
)

// APIChannel delivers the alert through a SendGrid-compatible transactional
// email HTTP API.
type APIChannel struct {
	cfg    config.APIChannelConfig
	client *http.Client
	dryRun bool
}

func NewAPIChannel(cfg config.APIChannelConfig, dryRun bool) *APIChannel {
	return &APIChannel{
		cfg:    cfg,
		client: &http.Client{},
		dryRun: dryRun,
	}
}

func (c *APIChannel) Name() string {
	return constants.ChannelAPI
}

func (c *APIChannel) IsConfigured() bool {
	return c.cfg.Key != "" && c.cfg.From != ""
}

type mailAddress struct {
	Email string `json:"email"`
}

type mailPersonalization struct {
	To []mailAddress `json:"to"`
}

type mailContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type mailPayload struct {
	Personalizations []mailPersonalization `json:"personalizations"`
	From             mailAddress           `json:"from"`
	Subject          string                `json:"subject"`
	Content          []mailContent         `json:"content"`
}

func (c *APIChannel) Send(ctx context.Context, recipients []string, message string) error {
	emails := FilterRecipients(recipients, KindEmail)
	if len(emails) == 0 {
		return fmt.Errorf("api channel: no email recipients")
	}

	if c.dryRun {
		return nil
	}

	to := make([]mailAddress, len(emails))
	for i, addr := range emails {
		to[i] = mailAddress{Email: addr}
	}

	payload := mailPayload{
		Personalizations: []mailPersonalization{{To: to}},
		From:             mailAddress{Email: c.cfg.From},
		Subject:          constants.AlertSubject,
		Content:          []mailContent{{Type: "text/plain", Value: message}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("api channel: failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("api channel: failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Key)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("api channel: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < constants.HTTPStatusOKMin || resp.StatusCode >= constants.HTTPStatusOKMax {
		return fmt.Errorf("api channel: provider returned status %d", resp.StatusCode)
	}

	return nil
}
