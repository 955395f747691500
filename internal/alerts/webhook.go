package alerts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/jobitter/jobitter-backend/internal/types"
)

const defaultWebhookTimeout = 15 * time.Second

// Payload is the JSON body delivered to an alert profile's webhook.
type Payload struct {
	Message   string             `json:"message"`
	Jobs      []types.JobPosting `json:"jobs"`
	ProfileID string             `json:"profile_id"`
	Timestamp time.Time          `json:"timestamp"`
}

// WebhookClient posts alert digests to subscriber webhooks.
type WebhookClient struct {
	client *http.Client
}

// NewWebhookClient creates a webhook client with a bounded timeout.
func NewWebhookClient() *WebhookClient {
	return &WebhookClient{
		client: &http.Client{Timeout: defaultWebhookTimeout},
	}
}

// Deliver posts the payload to the webhook URL. Any non-2xx response counts
// as a failed delivery.
func (w *WebhookClient) Deliver(ctx context.Context, url string, payload Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook delivery failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
