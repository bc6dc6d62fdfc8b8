package model_test

import (
	"encoding/json"
	"testing"

	model "github.com/IbrahimAli333/LaunchCircle-New/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestRole(t *testing.T) {
	convey.Convey("Given the role enumeration", t, func() {
		convey.Convey("Then every listed role is valid", func() {
			for _, r := range model.Roles() {
				convey.So(r.Valid(), convey.ShouldBeTrue)
			}
			convey.So(model.Roles(), convey.ShouldHaveLength, 11)
		})

		convey.Convey("Then unknown or differently cased roles are invalid", func() {
			convey.So(model.Role("ceo").Valid(), convey.ShouldBeFalse)
			convey.So(model.Role("Founder").Valid(), convey.ShouldBeFalse)
			convey.So(model.Role("").Valid(), convey.ShouldBeFalse)
		})

		convey.Convey("When the returned slice is modified", func() {
			list := model.Roles()
			list[0] = "ceo"

			convey.Convey("Then the enumeration is unaffected", func() {
				convey.So(model.Roles()[0], convey.ShouldEqual, model.RoleFounder)
			})
		})
	})
}

func TestProfileAttribute(t *testing.T) {
	convey.Convey("Given a profile", t, func() {
		p := model.Profile{
			ID:          "p1",
			Name:        "Ava Chen",
			Role:        model.RoleFounder,
			Skills:      []string{"Go", "React"},
			Location:    model.StringPtr("San Francisco"),
			Preferences: map[string]string{"work_style": "hybrid"},
		}

		convey.Convey("Then scalar fields are exposed as text", func() {
			convey.So(p.Attribute(model.FieldRole), convey.ShouldResemble, model.Attribute{Present: true, Text: "founder"})
			convey.So(p.Attribute(model.FieldLocation).Text, convey.ShouldEqual, "San Francisco")
		})

		convey.Convey("Then work_style comes from preferences", func() {
			convey.So(p.Attribute(model.FieldWorkStyle), convey.ShouldResemble, model.Attribute{Present: true, Text: "hybrid"})
		})

		convey.Convey("Then unset optionals and unknown fields are absent", func() {
			convey.So(p.Attribute(model.FieldExperience).Present, convey.ShouldBeFalse)
			convey.So(p.Attribute(model.FieldAvailability).Present, convey.ShouldBeFalse)
			convey.So(p.Attribute("salary").Present, convey.ShouldBeFalse)
		})

		convey.Convey("Then skills are exposed as a list", func() {
			convey.So(p.Attribute(model.FieldSkills).List, convey.ShouldResemble, []string{"Go", "React"})
		})
	})
}

func TestJobPostAttribute(t *testing.T) {
	convey.Convey("Given a job post", t, func() {
		j := model.JobPost{
			ID:        "j1",
			Title:     "Backend Engineer",
			Role:      model.RoleSoftwareEngineer,
			WorkStyle: model.StringPtr("remote"),
			Skills:    []string{"Go"},
		}

		convey.Convey("Then work_style is a direct field", func() {
			convey.So(j.Attribute(model.FieldWorkStyle).Text, convey.ShouldEqual, "remote")
		})

		convey.Convey("Then experience is never present", func() {
			convey.So(j.Attribute(model.FieldExperience).Present, convey.ShouldBeFalse)
		})
	})
}

func TestProfileClone(t *testing.T) {
	convey.Convey("Given a profile clone", t, func() {
		orig := model.Profile{
			ID:          "p1",
			Skills:      []string{"Go"},
			Headline:    model.StringPtr("Engineer"),
			Preferences: map[string]string{"work_style": "remote"},
		}
		cp := orig.Clone()

		convey.Convey("When the clone is mutated", func() {
			cp.Skills[0] = "Rust"
			*cp.Headline = "Designer"
			cp.Preferences["work_style"] = "onsite"

			convey.Convey("Then the original is untouched", func() {
				convey.So(orig.Skills[0], convey.ShouldEqual, "Go")
				convey.So(*orig.Headline, convey.ShouldEqual, "Engineer")
				convey.So(orig.Preferences["work_style"], convey.ShouldEqual, "remote")
			})
		})
	})
}

func TestProfileJSON(t *testing.T) {
	convey.Convey("Given a profile with an empty bio and no headline", t, func() {
		p := model.Profile{ID: "p1", Name: "Ava", Role: model.RoleFounder, Skills: []string{}, Bio: model.StringPtr("")}
		raw, err := json.Marshal(p)
		convey.So(err, convey.ShouldBeNil)

		var doc map[string]any
		convey.So(json.Unmarshal(raw, &doc), convey.ShouldBeNil)

		convey.Convey("Then keys are snake_case and absent differs from empty", func() {
			convey.So(doc, convey.ShouldContainKey, "looking_for_cofounder")
			convey.So(doc, convey.ShouldContainKey, "time_zone")
			convey.So(doc["bio"], convey.ShouldEqual, "")
			convey.So(doc["headline"], convey.ShouldBeNil)
		})
	})
}

func TestProfileCreateDefaults(t *testing.T) {
	convey.Convey("Given a create payload without skills or portfolio", t, func() {
		p := model.ProfileCreate{Name: "Ava", Role: model.RoleFounder}.Profile()
		raw, err := json.Marshal(p)
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then both sequences default to empty arrays", func() {
			convey.So(p.Skills, convey.ShouldResemble, []string{})
			convey.So(p.Portfolio, convey.ShouldResemble, []string{})
			convey.So(string(raw), convey.ShouldContainSubstring, `"portfolio":[]`)
			convey.So(string(raw), convey.ShouldContainSubstring, `"skills":[]`)
		})
	})
}

func TestNewEvent(t *testing.T) {
	convey.Convey("Given a new event", t, func() {
		ev, err := model.NewEvent(model.EventProfileUpdated, "p1", map[string]string{"id": "p1"})

		convey.Convey("Then it carries a fresh id and the payload snapshot", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(ev.ID, convey.ShouldNotBeEmpty)
			convey.So(ev.Type, convey.ShouldEqual, model.EventProfileUpdated)
			convey.So(ev.SubjectID, convey.ShouldEqual, "p1")
			convey.So(string(ev.Payload), convey.ShouldEqual, `{"id":"p1"}`)
			convey.So(ev.OccurredAt.IsZero(), convey.ShouldBeFalse)
		})

		convey.Convey("When the payload cannot be marshaled", func() {
			_, err := model.NewEvent(model.EventJobCreated, "j1", make(chan int))

			convey.Convey("Then an error is returned", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("Then two events never share an id", func() {
			other, _ := model.NewEvent(model.EventProfileUpdated, "p1", nil)
			convey.So(other.ID, convey.ShouldNotEqual, ev.ID)
		})
	})
}
