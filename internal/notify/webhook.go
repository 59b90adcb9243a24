package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

type Webhook struct {
	Client *http.Client
}

func NewWebhook() *Webhook {
	return &Webhook{
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

type webhookPayload struct {
	Content string `json:"content"`
}

func (w *Webhook) Send(ctx context.Context, webhookURL, content string) error {
	if w == nil || webhookURL == "" {
		return errors.New("no webhook configured")
	}
	body, _ := json.Marshal(webhookPayload{Content: content})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return errors.New("webhook non-2xx")
	}
	return nil
}
