package config_test

import (
	"errors"
	"os"
	"testing"

	"github.com/IbrahimAli333/LaunchCircle-New/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load("")

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8000")
				convey.So(cfg.StoreDriver, convey.ShouldEqual, "memory")
				convey.So(cfg.StatsSchedule, convey.ShouldEqual, "@every 30s")
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("LAUNCHCIRCLE_ADDR", ":8080")
			_ = os.Setenv("LAUNCHCIRCLE_QUEUE_SIZE", "500")
			_ = os.Setenv("LAUNCHCIRCLE_UPDATE_RETRIES", "5")
			_ = os.Setenv("LAUNCHCIRCLE_SEED", "false")
			_ = os.Setenv("LAUNCHCIRCLE_TRACING_ENABLED", "true")
			_ = os.Setenv("LAUNCHCIRCLE_CORS_ORIGINS", "https://a.example,https://b.example")
			defer clearConfigEnvVars()

			cfg, err := config.Load("")

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.EventQueueSize, convey.ShouldEqual, 500)
				convey.So(cfg.UpdateRetries, convey.ShouldEqual, 5)
				convey.So(cfg.Seed, convey.ShouldBeFalse)
				convey.So(cfg.TracingEnabled, convey.ShouldBeTrue)
				convey.So(cfg.AllowedOrigins(), convey.ShouldHaveLength, 2)
			})
		})

		convey.Convey("When loading metrics settings from environment variables", func() {
			_ = os.Setenv("LAUNCHCIRCLE_METRICS_ENABLED", "false")
			_ = os.Setenv("LAUNCHCIRCLE_METRICS_NAMESPACE", "lc")
			_ = os.Setenv("LAUNCHCIRCLE_METRICS_LABELS", "env=staging, region = eu")
			defer clearConfigEnvVars()

			cfg, err := config.Load("")

			convey.Convey("Then the metrics settings are overridden", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.MetricsEnabled, convey.ShouldBeFalse)
				convey.So(cfg.MetricsNamespace, convey.ShouldEqual, "lc")
				convey.So(cfg.MetricsSubsystem, convey.ShouldEqual, "directory")
				convey.So(cfg.ConstLabels(), convey.ShouldResemble, map[string]string{"env": "staging", "region": "eu"})
			})
		})

		convey.Convey("When loading config with YAML file from the env path", func() {
			yamlContent := `
addr: ":9090"
store_driver: sqlite
database_url: "file:test.db?_pragma=busy_timeout(5000)"
log_format: json
worker_count: 4
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("LAUNCHCIRCLE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load("")

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.StoreDriver, convey.ShouldEqual, config.DriverSQLite)
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 4)
				convey.So(cfg.UpdateRetries, convey.ShouldEqual, 3)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempConfigFile("addr: \":9090\"\nqueue_size: 100\n")
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("LAUNCHCIRCLE_ADDR", ":7070")
			defer clearConfigEnvVars()

			cfg, err := config.Load(tmpFile)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.EventQueueSize, convey.ShouldEqual, 100)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile("addr: [unterminated\n")
			defer func() { _ = os.Remove(tmpFile) }()
			clearConfigEnvVars()

			_, err := config.Load(tmpFile)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			clearConfigEnvVars()

			_, err := config.Load("/non/existent/launchcircle.yaml")

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("LAUNCHCIRCLE_QUEUE_SIZE", "lots")
			defer clearConfigEnvVars()

			_, err := config.Load("")

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When the resulting config is invalid", func() {
			_ = os.Setenv("LAUNCHCIRCLE_STORE_DRIVER", "postgres")
			defer clearConfigEnvVars()

			_, err := config.Load("")

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"LAUNCHCIRCLE_CONFIG",
		"LAUNCHCIRCLE_ADDR",
		"LAUNCHCIRCLE_QUEUE_SIZE",
		"LAUNCHCIRCLE_UPDATE_RETRIES",
		"LAUNCHCIRCLE_SEED",
		"LAUNCHCIRCLE_TRACING_ENABLED",
		"LAUNCHCIRCLE_CORS_ORIGINS",
		"LAUNCHCIRCLE_STORE_DRIVER",
		"LAUNCHCIRCLE_METRICS_ENABLED",
		"LAUNCHCIRCLE_METRICS_NAMESPACE",
		"LAUNCHCIRCLE_METRICS_LABELS",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "launchcircle-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
