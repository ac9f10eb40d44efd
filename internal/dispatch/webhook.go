package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/ANIKETSHETTY47/facility-intake-engine/internal/domain"
)

// Webhook posts the event as JSON and treats any 2xx as delivered. The body is not parsed.
type Webhook struct {
	name   string
	url    string
	client *http.Client
}

func NewWebhook(name, url string, client *http.Client) *Webhook {
	if client == nil {
		client = http.DefaultClient
	}
	return &Webhook{name: name, url: url, client: client}
}

func (w *Webhook) Name() string { return w.name }

func (w *Webhook) URL() string { return w.url }

func (w *Webhook) Deliver(ctx context.Context, ev domain.EquipmentEvent) (int, error) {
	body, err := json.Marshal(ev)
	if err != nil {
		return 0, fmt.Errorf("marshal event: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("http post: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, fmt.Errorf("webhook returned HTTP %d", resp.StatusCode)
	}
	return resp.StatusCode, nil
}
