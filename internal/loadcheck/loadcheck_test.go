package loadcheck

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/IbrahimAli333/LaunchCircle-New/internal/adapters/http/api"
	"github.com/IbrahimAli333/LaunchCircle-New/internal/adapters/repository"
	service "github.com/IbrahimAli333/LaunchCircle-New/internal/app"
	"github.com/IbrahimAli333/LaunchCircle-New/internal/domain/model"
	"github.com/IbrahimAli333/LaunchCircle-New/pkg/logger"
)

func init() {
	if err := logger.Init(logger.WithWriter(io.Discard)); err != nil {
		panic(err)
	}
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx := context.Background()
	svc := service.New(repository.NewMemoryStore())
	if _, err := svc.Seed(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}
	srv := httptest.NewServer(api.NewServer(svc).Handler(ctx))
	t.Cleanup(srv.Close)
	return srv
}

func TestGenerator(t *testing.T) {
	Convey("Given a run tag", t, func() {
		tag := newRunTag()
		So(tag, ShouldStartWith, "lc")
		So(len(tag), ShouldEqual, 2+tagLength)

		Convey("Every n-th payload is invalid", func() {
			stats := &Stats{}
			payloads, err := generateProfiles(context.Background(), &Config{NumProfiles: 20, InvalidEvery: 5}, tag, stats)
			So(err, ShouldBeNil)
			So(stats.ProfilesGenerated, ShouldEqual, 20)

			invalid := 0
			for _, p := range payloads {
				So(*p.Request.Experience, ShouldContainSubstring, tag)
				So(p.Request.Role.Valid(), ShouldBeTrue)
				So(len(p.Request.Skills), ShouldBeBetweenOrEqual, 1, maxSkillCount)
				if p.Invalid {
					invalid++
				}
			}
			So(invalid, ShouldEqual, 4)
		})
	})
}

func TestExpectedCount(t *testing.T) {
	Convey("Given generated profiles", t, func() {
		profiles := []model.Profile{
			{Role: model.RoleFounder, Skills: []string{"Go"}, Experience: model.StringPtr("3 years lcabc")},
			{Role: model.RoleDesigner, Skills: []string{"Design"}, Experience: model.StringPtr("4 years lcabc")},
			{Role: model.RoleFounder, Skills: []string{"Go"}, Experience: model.StringPtr("4 years other")},
		}

		Convey("Queries are scoped to the tag", func() {
			qs := checkQueries("lcabc")
			n, err := expectedCount(profiles, qs[0])
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 2)
		})
	})
}

func TestRun(t *testing.T) {
	Convey("Given a running directory API", t, func() {
		srv := newServer(t)
		out := filepath.Join(t.TempDir(), "payloads.json")
		config := &Config{
			BaseURL:      srv.URL,
			NumProfiles:  60,
			Workers:      4,
			InvalidEvery: 10,
			PatchSample:  5,
			Timeout:      5 * time.Second,
			OutputFile:   out,
		}

		Convey("Run verifies every filter check", func() {
			report, err := Run(context.Background(), config)
			So(err, ShouldBeNil)
			So(report.Stats.Created, ShouldEqual, 54)
			So(report.Stats.Rejected, ShouldEqual, 6)
			So(report.Stats.Patched, ShouldEqual, 5)
			So(report.Stats.ChecksFailed, ShouldEqual, 0)
			So(len(report.Checks), ShouldEqual, 2*len(checkQueries(report.Tag)))

			data, err := os.ReadFile(out)
			So(err, ShouldBeNil)
			var saved []Payload
			So(json.Unmarshal(data, &saved), ShouldBeNil)
			So(saved, ShouldHaveLength, 60)
		})
	})

	Convey("Given an unhealthy service", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		Convey("Run stops at the health check", func() {
			_, err := Run(context.Background(), &Config{BaseURL: srv.URL, NumProfiles: 1, Workers: 1, Timeout: time.Second})
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "health check")
		})
	})
}
