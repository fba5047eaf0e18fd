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

// DiscordChannel posts alerts to a Discord webhook as rich embeds.
type DiscordChannel struct {
	webhookURL string
	school     string
	client     *http.Client
}

// NewDiscord creates a DiscordChannel. An empty webhookURL disables it.
func NewDiscord(webhookURL, school string) *DiscordChannel {
	return &DiscordChannel{
		webhookURL: webhookURL,
		school:     school,
		client:     &http.Client{Timeout: sendTimeout},
	}
}

func (d *DiscordChannel) Name() string       { return "discord" }
func (d *DiscordChannel) IsConfigured() bool { return d.webhookURL != "" }

// embed mirrors the subset of Discord's embed object the bot uses.
type embed struct {
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color"`
	Fields      []embedField `json:"fields,omitempty"`
	Footer      *embedFooter `json:"footer,omitempty"`
	Timestamp   string       `json:"timestamp"`
}

type embedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type embedFooter struct {
	Text string `json:"text"`
}

func (d *DiscordChannel) Send(ctx context.Context, alert tracker.Alert) error {
	payload := map[string]interface{}{
		"embeds": []embed{d.buildEmbed(alert)},
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("discord webhook returned %d", resp.StatusCode)
	}
	return nil
}

func (d *DiscordChannel) buildEmbed(alert tracker.Alert) embed {
	e := embed{
		Title:     Title(alert),
		Color:     kindColor(alert.Kind),
		Footer:    &embedFooter{Text: d.school},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	switch alert.Kind {
	case tracker.KindScoringUpdate:
		text := alert.Play.Text
		if text == "" {
			text = "N/A"
		}
		team := alert.Play.Team.DisplayName
		if team == "" {
			team = "Team"
		}
		e.Fields = []embedField{
			{Name: "Play", Value: text},
			{Name: "Team", Value: team, Inline: true},
			{Name: "Score", Value: fmt.Sprintf("%d - %d", alert.Play.AwayScore, alert.Play.HomeScore), Inline: true},
		}

	case tracker.KindPreGameAlert:
		e.Description = Body(alert)
		e.Fields = []embedField{
			{Name: "Starts", Value: alert.StartTime.Format("2006-01-02 15:04 MST")},
		}

	case tracker.KindFinalScore:
		for _, f := range alert.Final {
			name := f.Team
			if f.Winner {
				name = "🏆 " + name
			}
			e.Fields = append(e.Fields, embedField{Name: name, Value: f.Score, Inline: true})
		}
		if len(e.Fields) == 0 {
			e.Description = Body(alert)
		}

	default:
		e.Description = Body(alert)
	}
	return e
}
