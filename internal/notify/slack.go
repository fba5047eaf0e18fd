package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/albapepper/gameday/internal/tracker"
)

// SlackChannel sends alerts to a Slack incoming webhook URL.
type SlackChannel struct {
	webhookURL string
	client     *http.Client
}

// NewSlack creates a SlackChannel. An empty webhookURL disables it.
func NewSlack(webhookURL string) *SlackChannel {
	return &SlackChannel{webhookURL: webhookURL, client: &http.Client{Timeout: sendTimeout}}
}

func (s *SlackChannel) Name() string       { return "slack" }
func (s *SlackChannel) IsConfigured() bool { return s.webhookURL != "" }

func (s *SlackChannel) Send(ctx context.Context, alert tracker.Alert) error {
	attachment := map[string]interface{}{
		"color":  fmt.Sprintf("#%06X", kindColor(alert.Kind)),
		"title":  Title(alert),
		"text":   Body(alert),
		"footer": "gameday",
		"ts":     time.Now().Unix(),
	}
	payload := map[string]interface{}{
		"text":        Title(alert),
		"attachments": []map[string]interface{}{attachment},
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("slack webhook returned %d", resp.StatusCode)
	}
	return nil
}
