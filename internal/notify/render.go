package notify

import (
	"fmt"
	"strings"

	"github.com/albapepper/gameday/internal/tracker"
)

// --------------------------------------------------------------------------
// Shared alert rendering — titles, bodies, embed colors
// --------------------------------------------------------------------------

// Embed colors per alert kind. Garnet for scoring plays, blue for finals.
const (
	colorScoring = 0x91268F
	colorPreGame = 0x73000A
	colorFinal   = 0x1A8CFF
	colorDigest  = 0x2E8B57
)

func kindColor(kind tracker.Kind) int {
	switch kind {
	case tracker.KindScoringUpdate:
		return colorScoring
	case tracker.KindPreGameAlert:
		return colorPreGame
	case tracker.KindFinalScore:
		return colorFinal
	default:
		return colorDigest
	}
}

// Title renders the headline line for an alert.
func Title(alert tracker.Alert) string {
	switch alert.Kind {
	case tracker.KindScoringUpdate:
		return fmt.Sprintf("%s — Scoring Play", alert.Sport)
	case tracker.KindPreGameAlert:
		return fmt.Sprintf("Upcoming: %s", alert.Sport)
	case tracker.KindFinalScore:
		return fmt.Sprintf("%s — Final Score", alert.Sport)
	case tracker.KindScheduleDigest:
		return "Today's Games"
	default:
		return alert.Sport
	}
}

// Body renders the plain-text body for an alert, used by channels without
// rich formatting and as the embed description.
func Body(alert tracker.Alert) string {
	switch alert.Kind {
	case tracker.KindScoringUpdate:
		text := alert.Play.Text
		if text == "" {
			text = "Scoring play"
		}
		return fmt.Sprintf("%s (%d - %d)", text, alert.Play.AwayScore, alert.Play.HomeScore)
	case tracker.KindPreGameAlert:
		return fmt.Sprintf("%s starts in %d minutes.", alert.Matchup, alert.MinutesToStart)
	case tracker.KindFinalScore:
		return finalLine(alert)
	case tracker.KindScheduleDigest:
		return digestLines(alert)
	default:
		return ""
	}
}

func finalLine(alert tracker.Alert) string {
	if len(alert.Final) == 0 {
		return fmt.Sprintf("Final: %s", alert.Matchup)
	}
	parts := make([]string, 0, len(alert.Final))
	for _, f := range alert.Final {
		parts = append(parts, fmt.Sprintf("%s %s", f.Team, f.Score))
	}
	return "Final: " + strings.Join(parts, " - ")
}

func digestLines(alert tracker.Alert) string {
	lines := make([]string, 0, len(alert.Games))
	for _, g := range alert.Games {
		lines = append(lines, fmt.Sprintf("%s — %s (%s)",
			g.StartTime.Format("15:04 MST"), g.Matchup, g.Sport))
	}
	return strings.Join(lines, "\n")
}
