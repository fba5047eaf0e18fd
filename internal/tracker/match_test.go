package tracker

import (
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/albapepper/gameday/internal/espn"
)

func eventWithTeams(names ...string) espn.Event {
	var competitors []espn.Competitor
	for _, n := range names {
		competitors = append(competitors, espn.Competitor{Team: espn.Team{DisplayName: n}})
	}
	return espn.Event{
		ID:           "401",
		Competitions: []espn.Competition{{Competitors: competitors}},
	}
}

func TestMatcher(t *testing.T) {
	convey.Convey("Given a matcher for a school with aliases", t, func() {
		m := NewMatcher("South Carolina", "Gamecocks", "")

		convey.Convey("Matching is case-insensitive substring", func() {
			convey.So(m.MatchesTeam("South Carolina Gamecocks"), convey.ShouldBeTrue)
			convey.So(m.MatchesTeam("SOUTH CAROLINA GAMECOCKS"), convey.ShouldBeTrue)
			convey.So(m.MatchesTeam("south carolina"), convey.ShouldBeTrue)
		})

		convey.Convey("Aliases match independently of the canonical name", func() {
			convey.So(m.MatchesTeam("Gamecocks"), convey.ShouldBeTrue)
		})

		convey.Convey("Other teams do not match", func() {
			convey.So(m.MatchesTeam("North Carolina Tar Heels"), convey.ShouldBeFalse)
			convey.So(m.MatchesTeam("Clemson Tigers"), convey.ShouldBeFalse)
		})

		convey.Convey("A missing display name never matches", func() {
			convey.So(m.MatchesTeam(""), convey.ShouldBeFalse)
		})

		convey.Convey("An event matches when either competitor is the school", func() {
			convey.So(m.MatchesEvent(eventWithTeams("Clemson Tigers", "South Carolina Gamecocks")), convey.ShouldBeTrue)
			convey.So(m.MatchesEvent(eventWithTeams("Clemson Tigers", "Duke Blue Devils")), convey.ShouldBeFalse)
		})

		convey.Convey("An event without competitions does not match", func() {
			convey.So(m.MatchesEvent(espn.Event{ID: "401"}), convey.ShouldBeFalse)
		})

		convey.Convey("Competitors with missing names are skipped, not errors", func() {
			convey.So(m.MatchesEvent(eventWithTeams("", "South Carolina Gamecocks")), convey.ShouldBeTrue)
			convey.So(m.MatchesEvent(eventWithTeams("", "")), convey.ShouldBeFalse)
		})
	})
}
