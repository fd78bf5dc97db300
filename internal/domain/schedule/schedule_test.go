package schedule_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/okian/scoutops/internal/domain/schedule"
	. "github.com/smartystreets/goconvey/convey"
)

var roster = []string{"a", "b", "c", "d", "e", "f", "g", "h"}

func sameSet(x, y []string) bool {
	a := slices.Clone(x)
	b := slices.Clone(y)
	slices.Sort(a)
	slices.Sort(b)
	return slices.Equal(a, b)
}

func TestGenerate(t *testing.T) {
	Convey("Given eight quantitative scouters and no subjective roster", t, func() {
		s, err := schedule.Generate(roster, nil, 6, 6)

		Convey("Then every match differs from its predecessor", func() {
			So(err, ShouldBeNil)
			So(len(s), ShouldEqual, 6)
			for i := 1; i < len(s); i++ {
				So(sameSet(s[i].Scouters, s[i-1].Scouters), ShouldBeFalse)
			}
		})

		Convey("Then no subjective scouter is assigned", func() {
			for _, a := range s {
				So(a.Subjective, ShouldBeEmpty)
				So(a.Substituted, ShouldBeFalse)
				So(a.Conflict, ShouldBeFalse)
			}
		})
	})

	Convey("Given identical quantitative and subjective rosters", t, func() {
		s, err := schedule.Generate(roster, roster, 8, 6)

		Convey("Then the subjective scouter follows roster order", func() {
			So(err, ShouldBeNil)
			for i, a := range s {
				So(a.Subjective, ShouldEqual, roster[i])
				So(a.Substituted, ShouldBeFalse)
			}
		})

		Convey("Then no subjective scouter also scouts a robot", func() {
			for _, a := range s {
				So(len(a.Scouters), ShouldEqual, 6)
				So(slices.Contains(a.Scouters, a.Subjective), ShouldBeFalse)
			}
		})
	})

	Convey("Given a subjective pick that collides with the quantitative window", t, func() {
		s, err := schedule.Generate([]string{"a", "b", "c", "d"}, []string{"b", "x"}, 3, 2)
		So(err, ShouldBeNil)

		Convey("Then the next roster member substitutes for that match only", func() {
			So(s[0].Scouters, ShouldResemble, []string{"b", "c"})
			So(s[0].Subjective, ShouldEqual, "x")
			So(s[0].Substituted, ShouldBeTrue)

			So(s[1].Subjective, ShouldEqual, "x")
			So(s[1].Substituted, ShouldBeFalse)

			So(s[2].Scouters, ShouldResemble, []string{"d", "a"})
			So(s[2].Subjective, ShouldEqual, "b")
		})

		Convey("Then the summary counts the substitution", func() {
			st := schedule.Summarize(s)
			So(st.Matches, ShouldEqual, 3)
			So(st.Substitutions, ShouldEqual, 1)
			So(st.Conflicts, ShouldEqual, 0)
		})
	})

	Convey("Given a subjective roster fully inside every window", t, func() {
		s, err := schedule.Generate([]string{"a", "b"}, []string{"a", "b"}, 2, 2)
		So(err, ShouldBeNil)

		Convey("Then the round-robin pick is kept and flagged as a conflict", func() {
			So(s[0].Subjective, ShouldEqual, "a")
			So(s[0].Conflict, ShouldBeTrue)
			So(s[1].Subjective, ShouldEqual, "b")
			So(s[1].Conflict, ShouldBeTrue)
			So(schedule.Summarize(s).Conflicts, ShouldEqual, 2)
		})
	})

	Convey("Given degenerate sizes", t, func() {
		Convey("When no robots are tracked", func() {
			s, err := schedule.Generate(roster, roster, 3, 0)
			So(err, ShouldBeNil)
			for i, a := range s {
				So(a.Scouters, ShouldNotBeNil)
				So(len(a.Scouters), ShouldEqual, 0)
				So(a.Subjective, ShouldEqual, roster[i])
			}
		})

		Convey("When the quantitative roster is empty", func() {
			s, err := schedule.Generate(nil, nil, 2, 6)
			So(err, ShouldBeNil)
			So(len(s), ShouldEqual, 2)
			So(len(s[0].Scouters), ShouldEqual, 0)
		})

		Convey("When no matches are requested", func() {
			s, err := schedule.Generate(roster, nil, 0, 6)
			So(err, ShouldBeNil)
			So(len(s), ShouldEqual, 0)
		})

		Convey("When the roster is smaller than a match", func() {
			s, err := schedule.Generate([]string{"a", "b"}, nil, 1, 3)
			So(err, ShouldBeNil)
			So(s[0].Scouters, ShouldResemble, []string{"b", "a", "b"})
		})
	})

	Convey("Given invalid input", t, func() {
		_, err := schedule.Generate(roster, nil, -1, 6)
		So(errors.Is(err, schedule.ErrInvalidInput), ShouldBeTrue)

		_, err = schedule.Generate(roster, nil, 1, -6)
		So(errors.Is(err, schedule.ErrInvalidInput), ShouldBeTrue)

		_, err = schedule.Generate([]string{"a", " "}, nil, 1, 1)
		So(errors.Is(err, schedule.ErrInvalidInput), ShouldBeTrue)

		_, err = schedule.Generate(roster, []string{""}, 1, 1)
		So(errors.Is(err, schedule.ErrInvalidInput), ShouldBeTrue)
	})
}

func TestGenerateProperties(t *testing.T) {
	Convey("Given a sweep of roster and match sizes", t, func() {
		for n := 1; n <= 10; n++ {
			quant := make([]string, n)
			for i := range quant {
				quant[i] = string(rune('a' + i))
			}
			subj := slices.Clone(quant)
			slices.Reverse(subj)
			for robots := 0; robots <= 7; robots++ {
				matches := n * 3
				s, err := schedule.Generate(quant, subj, matches, robots)
				So(err, ShouldBeNil)
				So(len(s), ShouldEqual, matches)

				for i, a := range s {
					So(a.Match, ShouldEqual, i)
					So(len(a.Scouters), ShouldEqual, robots)
					if !a.Conflict {
						So(slices.Contains(a.Scouters, a.Subjective), ShouldBeFalse)
					}
					if i > 0 && robots > 0 && n > robots {
						So(sameSet(a.Scouters, s[i-1].Scouters), ShouldBeFalse)
					}
				}

				if robots > 0 {
					for _, m := range quant {
						So(schedule.Load(s)[m], ShouldEqual, 3*robots)
					}
				}
			}
		}
	})
}
