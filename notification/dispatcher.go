// Package notification hands rendered outreach messages to the external
// channel collaborator. Provider integration (SMTP, WhatsApp business API,
// telephony) lives behind the collaborator's webhook; this package stops at
// the HTTP handoff.
package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"bizledger/logger"
	"bizledger/models"
)

// Dispatcher delivers an outbound message to a channel collaborator.
type Dispatcher interface {
	Dispatch(ctx context.Context, msg *models.OutboundMessage) error
}

// WebhookDispatcher POSTs rendered messages to a configured endpoint. An
// empty URL turns it into a logging no-op, which keeps local development
// working without a collaborator running.
type WebhookDispatcher struct {
	url    string
	client *http.Client
}

// NewWebhookDispatcher creates a dispatcher for the given endpoint.
func NewWebhookDispatcher(url string, timeout time.Duration) *WebhookDispatcher {
	return &WebhookDispatcher{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Dispatch posts the message as JSON. Non-2xx responses are errors so the
// caller can decide whether to surface or log them.
func (d *WebhookDispatcher) Dispatch(ctx context.Context, msg *models.OutboundMessage) error {
	if d.url == "" {
		logger.Log.WithField("channel", msg.Channel).
			Infof("channel webhook not configured, dropping message for customer %d", msg.CustomerID)
		return nil
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal outbound message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build channel request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach channel endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("channel endpoint returned %d: %s", resp.StatusCode, string(snippet))
	}
	return nil
}
