package notify

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/albapepper/gameday/internal/tracker"
)

// WebhookChannel sends alerts to a generic HTTP endpoint as JSON, with
// optional HMAC-SHA256 signing.
type WebhookChannel struct {
	url    string
	secret string
	client *http.Client
}

// NewWebhook creates a WebhookChannel. An empty url disables it.
func NewWebhook(url, secret string) *WebhookChannel {
	return &WebhookChannel{url: url, secret: secret, client: &http.Client{Timeout: sendTimeout}}
}

func (w *WebhookChannel) Name() string       { return "webhook" }
func (w *WebhookChannel) IsConfigured() bool { return w.url != "" }

func (w *WebhookChannel) Send(ctx context.Context, alert tracker.Alert) error {
	payload := map[string]interface{}{
		"kind":     alert.Kind,
		"sport":    alert.Sport,
		"event_id": alert.EventID,
		"title":    Title(alert),
		"body":     Body(alert),
		"ts":       time.Now().UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if w.secret != "" {
		mac := hmac.New(sha256.New, []byte(w.secret))
		mac.Write(b)
		req.Header.Set("X-Gameday-Signature", "sha256="+hex.EncodeToString(mac.Sum(nil)))
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned %d", resp.StatusCode)
	}
	return nil
}
