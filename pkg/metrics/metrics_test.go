package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options on a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then defaults are applied", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "launchcircle")
				So(manager.subsystem, ShouldEqual, "directory")
				So(manager.enabled, ShouldBeTrue)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_namespace"),
				WithSubsystem("test_subsystem"),
				WithMetricsEnabled(true),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then metric names carry the namespace and labels", func() {
				manager.profileMerges.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)

				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
					if f.GetName() == "test_namespace_test_subsystem_profile_merges_total" {
						So(f.GetMetric()[0].GetLabel()[0].GetName(), ShouldEqual, "env")
						So(f.GetMetric()[0].GetLabel()[0].GetValue(), ShouldEqual, "test")
					}
				}
				So(names, ShouldContain, "test_namespace_test_subsystem_profile_merges_total")
			})
		})

		Convey("When metrics are disabled", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithMetricsEnabled(false), WithPrometheusRegistry(registry))

			Convey("Then collectors work but nothing is registered", func() {
				So(func() { manager.updateConflicts.Inc() }, ShouldNotPanic)
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(families, ShouldBeEmpty)
			})
		})

		Convey("When empty option values are given", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithCustomLabels(nil),
				WithPrometheusRegistry(registry),
			)

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "launchcircle")
				So(manager.subsystem, ShouldEqual, "directory")
				So(manager.customLabels, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording a search", func() {
			before := testutil.ToFloat64(globalManager.searchRequests.WithLabelValues("profiles"))
			RecordSearch("profiles", 1.5, 3)

			Convey("Then the search counter moves", func() {
				So(testutil.ToFloat64(globalManager.searchRequests.WithLabelValues("profiles")), ShouldEqual, before+1)
			})
		})

		Convey("When recording update outcomes", func() {
			merges := testutil.ToFloat64(globalManager.profileMerges)
			conflicts := testutil.ToFloat64(globalManager.updateConflicts)
			RecordProfileMerge()
			RecordUpdateConflict()
			RecordUpdateConflict()

			Convey("Then both counters reflect the calls", func() {
				So(testutil.ToFloat64(globalManager.profileMerges), ShouldEqual, merges+1)
				So(testutil.ToFloat64(globalManager.updateConflicts), ShouldEqual, conflicts+2)
			})
		})

		Convey("When updating entity gauges", func() {
			UpdateEntityCount("profiles", 4)
			UpdateEntityCount("jobs", 2)

			Convey("Then gauges hold the last value", func() {
				So(testutil.ToFloat64(globalManager.entitiesTotal.WithLabelValues("profiles")), ShouldEqual, 4)
				So(testutil.ToFloat64(globalManager.entitiesTotal.WithLabelValues("jobs")), ShouldEqual, 2)
			})
		})

		Convey("When recording event pipeline metrics", func() {
			published := testutil.ToFloat64(globalManager.eventsPublished.WithLabelValues("profile.updated"))
			dupes := testutil.ToFloat64(globalManager.eventsDuplicate)
			RecordEventEmitted("profile.updated")
			RecordEventPublished("profile.updated")
			RecordEventDuplicate()

			Convey("Then the counters move", func() {
				So(testutil.ToFloat64(globalManager.eventsPublished.WithLabelValues("profile.updated")), ShouldEqual, published+1)
				So(testutil.ToFloat64(globalManager.eventsDuplicate), ShouldEqual, dupes+1)
			})
		})

		Convey("When recording the remaining families", func() {
			Convey("Then none of them panic", func() {
				So(func() {
					RecordInvalidFilter()
					RecordEntityCreated("applications")
					RecordExport("jobs")
					RecordHTTPRequest("/api/users", "GET", "200")
					RecordHTTPRequestDuration("/api/users", "GET", "200", 12)
					RecordRepositoryLatency("memory", "list_profiles", 0.2)
					RecordEventPublishError()
					UpdateQueueSize(3)
					UpdateQueueCapacity(10)
					UpdateQueueUtilization(0.3)
					RecordQueueEnqueue()
					RecordQueueDequeue()
					RecordQueueEnqueueError()
					RecordQueueProcessingLatency(0.1)
					UpdateWorkerActiveCount(2)
					UpdateWorkerMessagesPerSecond(5)
					RecordWorkerProcessingLatency(1)
					RecordWorkerError()
					RecordErrorByComponent("api", "not_found")
					RecordErrorByType("not_found", "warning")
					RecordErrorByEndpoint("/api/users/{id}", "GET", "not_found")
					RecordErrorLatency("api", "not_found", 2)
					UpdateSystemMemoryUsage(1024)
					UpdateSystemGoroutineCount(12)
					RecordSystemGCPauseTime(0.4)
				}, ShouldNotPanic)
			})
		})

		Convey("When gathering the custom registry", func() {
			RecordHTTPRequest("/api/health", "GET", "200")
			families, err := GetRegistry().Gather()

			Convey("Then directory metrics are exposed without Go runtime collectors", func() {
				So(err, ShouldBeNil)
				found := false
				for _, f := range families {
					So(f.GetName(), ShouldStartWith, "launchcircle_")
					if f.GetName() == "launchcircle_directory_http_requests_total" {
						found = true
					}
				}
				So(found, ShouldBeTrue)
			})
		})
	})
}

func TestInit(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		previousManager, previousRegistry := globalManager, customRegistry
		Reset(func() { globalManager, customRegistry = previousManager, previousRegistry })

		Convey("When it is initialized with a namespace and labels", func() {
			Init(WithNamespace("lc"), WithCustomLabels(map[string]string{"env": "staging"}))
			RecordHTTPRequest("/api/health", "GET", "200")
			families, err := GetRegistry().Gather()

			Convey("Then the rebuilt registry exposes the renamed metrics", func() {
				So(err, ShouldBeNil)
				So(GetRegistry(), ShouldNotEqual, previousRegistry)
				found := false
				for _, f := range families {
					So(f.GetName(), ShouldStartWith, "lc_directory_")
					if f.GetName() == "lc_directory_http_requests_total" {
						found = true
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When it is initialized with metrics disabled", func() {
			Init(WithMetricsEnabled(false))

			Convey("Then recording still works and nothing is exposed", func() {
				So(func() { RecordHTTPRequest("/api/health", "GET", "200") }, ShouldNotPanic)
				families, err := GetRegistry().Gather()
				So(err, ShouldBeNil)
				So(families, ShouldBeEmpty)
			})
		})
	})
}
