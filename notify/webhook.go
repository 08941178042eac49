package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Webhook POSTs every event as JSON to a fixed URL.
type Webhook struct {
	url    string
	client *resty.Client
}

func NewWebhook(url string, timeout time.Duration) *Webhook {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	return &Webhook{url: url, client: client}
}

func (w *Webhook) Name() string { return "webhook" }

func (w *Webhook) Send(ctx context.Context, event Event) error {
	resp, err := w.client.R().
		SetContext(ctx).
		SetHeader("X-Event-Type", event.Type).
		SetBody(event).
		Post(w.url)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode(), string(resp.Body()))
	}
	return nil
}
