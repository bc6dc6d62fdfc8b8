package search

import (
	"context"
	"errors"
	"io"
	"net/url"
	"testing"

	"github.com/IbrahimAli333/LaunchCircle-New/internal/domain/model"
	"github.com/IbrahimAli333/LaunchCircle-New/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeStore struct {
	profiles   []model.Profile
	jobs       []model.JobPost
	profileErr error
	jobErr     error
}

func (f *fakeStore) ListProfiles(context.Context) ([]model.Profile, error) {
	return f.profiles, f.profileErr
}

func (f *fakeStore) ListJobs(context.Context) ([]model.JobPost, error) {
	return f.jobs, f.jobErr
}

func newOrchestrator(store *fakeStore) *Orchestrator {
	So(logger.Init(logger.WithWriter(io.Discard)), ShouldBeNil)
	return New(store, store, WithLogger(logger.Get()))
}

func seededStore() *fakeStore {
	return &fakeStore{
		profiles: []model.Profile{
			{ID: "p1", Role: model.RoleFounder, Skills: []string{"Go"}, Location: model.StringPtr("San Francisco")},
			{ID: "p2", Role: model.RoleDesigner, Skills: []string{"Figma"}},
			{ID: "p3", Role: model.RoleFounder, Skills: []string{"Python"}, Location: model.StringPtr("New York")},
		},
		jobs: []model.JobPost{
			{ID: "j1", Role: model.RoleSoftwareEngineer, Skills: []string{"Go"}, WorkStyle: model.StringPtr("remote")},
			{ID: "j2", Role: model.RoleFounder, Skills: []string{"Python"}},
		},
	}
}

func TestSearch(t *testing.T) {
	Convey("Given a store of 3 profiles and 2 jobs", t, func() {
		o := newOrchestrator(seededStore())
		ctx := context.Background()

		Convey("When searching with no parameters", func() {
			res, err := o.Search(ctx, url.Values{})

			Convey("Then everything is returned in insertion order", func() {
				So(err, ShouldBeNil)
				So(res.Profiles, ShouldHaveLength, 3)
				So(res.Jobs, ShouldHaveLength, 2)
				So(res.Profiles[0].ID, ShouldEqual, "p1")
				So(res.Profiles[2].ID, ShouldEqual, "p3")
				So(res.Jobs[0].ID, ShouldEqual, "j1")
				So(res.Jobs[1].ID, ShouldEqual, "j2")
			})
		})

		Convey("When searching by a skill present in both collections", func() {
			res, err := o.Search(ctx, url.Values{"skills": {"go"}})

			Convey("Then the same spec is applied to both", func() {
				So(err, ShouldBeNil)
				So(res.Profiles, ShouldHaveLength, 1)
				So(res.Profiles[0].ID, ShouldEqual, "p1")
				So(res.Jobs, ShouldHaveLength, 1)
				So(res.Jobs[0].ID, ShouldEqual, "j1")
			})
		})

		Convey("When nothing matches", func() {
			res, err := o.Search(ctx, url.Values{"role": {"sales"}})

			Convey("Then both lists are empty and non-nil", func() {
				So(err, ShouldBeNil)
				So(res.Profiles, ShouldNotBeNil)
				So(res.Profiles, ShouldBeEmpty)
				So(res.Jobs, ShouldNotBeNil)
				So(res.Jobs, ShouldBeEmpty)
			})
		})

		Convey("When the filter cannot be decoded", func() {
			res, err := o.Search(ctx, url.Values{"location": {"\xff"}})

			Convey("Then the result degrades to empty without an error", func() {
				So(err, ShouldBeNil)
				So(res.Profiles, ShouldBeEmpty)
				So(res.Jobs, ShouldBeEmpty)
			})
		})

		Convey("When using the single-collection variants", func() {
			profiles, err1 := o.Profiles(ctx, url.Values{"role": {"founder"}})
			jobs, err2 := o.Jobs(ctx, url.Values{"role": {"founder"}})
			bad, err3 := o.Jobs(ctx, url.Values{"skills": {"\xfe"}})

			Convey("Then they share the resolve and match path", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(err3, ShouldBeNil)
				So(profiles, ShouldHaveLength, 2)
				So(jobs, ShouldHaveLength, 1)
				So(jobs[0].ID, ShouldEqual, "j2")
				So(bad, ShouldBeEmpty)
			})
		})
	})

	Convey("Given an empty store", t, func() {
		o := newOrchestrator(&fakeStore{})

		Convey("When searching", func() {
			res, err := o.Search(context.Background(), url.Values{})

			Convey("Then empty non-nil lists are returned", func() {
				So(err, ShouldBeNil)
				So(res.Profiles, ShouldNotBeNil)
				So(res.Jobs, ShouldNotBeNil)
			})
		})
	})

	Convey("Given a failing store", t, func() {
		boom := errors.New("store down")
		o := newOrchestrator(&fakeStore{jobErr: boom})

		Convey("When searching", func() {
			res, err := o.Search(context.Background(), url.Values{})

			Convey("Then the store error is returned", func() {
				So(errors.Is(err, boom), ShouldBeTrue)
				So(res.Profiles, ShouldBeEmpty)
			})
		})
	})
}
