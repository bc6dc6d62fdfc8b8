package match_test

import (
	"net/url"
	"testing"

	"github.com/IbrahimAli333/LaunchCircle-New/internal/domain/filter"
	"github.com/IbrahimAli333/LaunchCircle-New/internal/domain/match"
	"github.com/IbrahimAli333/LaunchCircle-New/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func resolve(q string) filter.Spec {
	v, err := url.ParseQuery(q)
	So(err, ShouldBeNil)
	spec, err := filter.Resolve(v)
	So(err, ShouldBeNil)
	return spec
}

func founder() model.Profile {
	return model.Profile{
		ID:       "p1",
		Name:     "Ava Chen",
		Role:     model.RoleFounder,
		Location: model.StringPtr("San Francisco"),
		Skills:   []string{"React", "Go"},
	}
}

func TestMatchesScenarios(t *testing.T) {
	Convey("Given a founder in San Francisco with React and Go", t, func() {
		p := founder()

		Convey("When filtering by skills go or rust", func() {
			Convey("Then the case-insensitive intersection matches", func() {
				So(match.Matches(p, resolve("skills=go&skills=rust")), ShouldBeTrue)
			})
		})

		Convey("When filtering by location francisco", func() {
			Convey("Then the case-insensitive substring matches", func() {
				So(match.Matches(p, resolve("location=francisco")), ShouldBeTrue)
			})
		})

		Convey("When filtering by role designer", func() {
			Convey("Then nothing matches", func() {
				So(match.Matches(p, resolve("role=designer")), ShouldBeFalse)
			})
		})
	})
}

func TestMatchesKinds(t *testing.T) {
	Convey("Given the match kinds", t, func() {
		p := founder()

		Convey("Then the empty spec matches everything", func() {
			So(match.Matches(p, filter.Spec{}), ShouldBeTrue)
			So(match.Matches(model.Profile{}, nil), ShouldBeTrue)
		})

		Convey("Then exact role matching is case-sensitive", func() {
			So(match.Matches(p, resolve("role=founder")), ShouldBeTrue)
			So(match.Matches(p, resolve("role=Founder")), ShouldBeFalse)
		})

		Convey("Then an absent or empty field never satisfies a substring constraint", func() {
			So(match.Matches(p, resolve("experience=senior")), ShouldBeFalse)
			p.Experience = model.StringPtr("")
			So(match.Matches(p, resolve("experience=senior")), ShouldBeFalse)
		})

		Convey("Then zero entity skills never satisfy a skills constraint", func() {
			p.Skills = nil
			So(match.Matches(p, resolve("skills=go")), ShouldBeFalse)
		})

		Convey("Then skill tokens are trimmed before comparison", func() {
			p.Skills = []string{"  Go  "}
			So(match.Matches(p, resolve("skills=go")), ShouldBeTrue)
		})

		Convey("Then work_style reads profile preferences", func() {
			So(match.Matches(p, resolve("work_style=remote")), ShouldBeFalse)
			p.Preferences = map[string]string{"work_style": "Remote-first"}
			So(match.Matches(p, resolve("work_style=remote")), ShouldBeTrue)
		})

		Convey("Then constraints are conjunctive", func() {
			So(match.Matches(p, resolve("role=founder&location=san")), ShouldBeTrue)
			So(match.Matches(p, resolve("role=founder&location=austin")), ShouldBeFalse)
		})

		Convey("Then an unknown constraint kind never matches", func() {
			So(match.Matches(p, filter.Spec{{Field: "role", Kind: "regex", Value: ".*"}}), ShouldBeFalse)
		})

		Convey("Then jobs never match an experience constraint", func() {
			j := model.JobPost{ID: "j1", Title: "x", Role: model.RoleDesigner}
			So(match.Matches(j, resolve("experience=senior")), ShouldBeFalse)
			So(match.Matches(j, resolve("role=designer")), ShouldBeTrue)
		})
	})
}

func TestIntersectionLaw(t *testing.T) {
	Convey("Given skill sets", t, func() {
		cases := []struct {
			entity []string
			query  string
			want   bool
		}{
			{[]string{"Python", "Fintech"}, "skills=fintech", true},
			{[]string{"Python", "Fintech"}, "skills=go,rust", false},
			{[]string{"Next.js", "React"}, "skills=react,vue", true},
			{[]string{"a"}, "skills=A&skills=b", true},
		}

		Convey("Then a match happens exactly when the normalized sets share an element", func() {
			for _, c := range cases {
				p := model.Profile{Role: model.RoleSales, Skills: c.entity}
				So(match.Matches(p, resolve(c.query)), ShouldEqual, c.want)
			}
		})
	})
}

func TestFilter(t *testing.T) {
	Convey("Given an ordered collection", t, func() {
		profiles := []model.Profile{
			{ID: "1", Role: model.RoleFounder},
			{ID: "2", Role: model.RoleDesigner},
			{ID: "3", Role: model.RoleFounder},
		}

		Convey("When filtering by role", func() {
			out := match.Filter(profiles, resolve("role=founder"))

			Convey("Then matches keep their input order", func() {
				So(out, ShouldHaveLength, 2)
				So(out[0].ID, ShouldEqual, "1")
				So(out[1].ID, ShouldEqual, "3")
			})
		})

		Convey("When nothing matches", func() {
			out := match.Filter(profiles, resolve("role=sales"))

			Convey("Then the result is empty and non-nil", func() {
				So(out, ShouldNotBeNil)
				So(out, ShouldBeEmpty)
			})
		})
	})
}
