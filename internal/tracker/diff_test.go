package tracker

import (
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/albapepper/gameday/internal/espn"
)

func play(id, text string) espn.ScoringPlay {
	return espn.ScoringPlay{ID: id, Text: text}
}

func TestDiffPlays(t *testing.T) {
	convey.Convey("Given a remembered scoring-play sequence", t, func() {
		old := []espn.ScoringPlay{play("1", "TD"), play("2", "FG")}

		convey.Convey("When the fresh sequence is identical", func() {
			fresh := []espn.ScoringPlay{play("1", "TD"), play("2", "FG")}

			convey.Convey("Then nothing is due", func() {
				convey.So(DiffPlays(old, fresh), convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When the fresh sequence appends new plays", func() {
			fresh := []espn.ScoringPlay{play("1", "TD"), play("2", "FG"), play("3", "Safety")}
			due := DiffPlays(old, fresh)

			convey.Convey("Then only the appended tail is due", func() {
				convey.So(due, convey.ShouldHaveLength, 1)
				convey.So(due[0].ID, convey.ShouldEqual, "3")
			})
		})

		convey.Convey("When the fresh sequence is shorter than remembered", func() {
			fresh := []espn.ScoringPlay{play("9", "Reset")}
			due := DiffPlays(old, fresh)

			convey.Convey("Then the whole fresh sequence is re-emitted", func() {
				convey.So(due, convey.ShouldHaveLength, 1)
				convey.So(due[0].ID, convey.ShouldEqual, "9")
			})
		})

		convey.Convey("When nothing was remembered yet", func() {
			due := DiffPlays(nil, old)

			convey.Convey("Then every fresh play is due", func() {
				convey.So(due, convey.ShouldHaveLength, 2)
			})
		})

		convey.Convey("When both sequences are empty", func() {
			convey.So(DiffPlays(nil, nil), convey.ShouldBeEmpty)
		})
	})
}
