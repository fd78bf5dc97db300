package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/scoutops/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.PersistQueueSize, convey.ShouldEqual, 10_000)
				convey.So(cfg.MaxRobotsPerMatch, convey.ShouldEqual, 6)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("SCOUTOPS_ADDR", ":8080")
			_ = os.Setenv("SCOUTOPS_PERSIST_QUEUE_SIZE", "500")
			_ = os.Setenv("SCOUTOPS_PERSIST_WORKERS", "3")
			_ = os.Setenv("SCOUTOPS_MAX_ROBOTS_PER_MATCH", "4")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.PersistQueueSize, convey.ShouldEqual, 500)
				convey.So(cfg.PersistWorkers, convey.ShouldEqual, 3)
				convey.So(cfg.MaxRobotsPerMatch, convey.ShouldEqual, 4)
				convey.So(cfg.DedupeSize, convey.ShouldEqual, 50_000)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempConfigFile(`
addr: ":9090"
log_format: json
persist_queue_size: 300
max_match_count: 120
`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("SCOUTOPS_CONFIG", tmpFile)
			_ = os.Setenv("SCOUTOPS_ADDR", ":7070")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.PersistQueueSize, convey.ShouldEqual, 300)
				convey.So(cfg.MaxMatchCount, convey.ShouldEqual, 120)
				convey.So(cfg.MaxRobotsPerMatch, convey.ShouldEqual, 6)
			})
		})

		convey.Convey("When the YAML file is invalid", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("SCOUTOPS_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the file does not exist", func() {
			_ = os.Setenv("SCOUTOPS_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)
			convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			convey.So(cfg, convey.ShouldBeNil)
		})

		convey.Convey("When a numeric variable is not a number", func() {
			_ = os.Setenv("SCOUTOPS_PERSIST_WORKERS", "many")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(cfg, convey.ShouldBeNil)
		})

		convey.Convey("When validation fails", func() {
			cases := map[string]string{
				"SCOUTOPS_ADDR":                 "",
				"SCOUTOPS_PERSIST_QUEUE_SIZE":   "0",
				"SCOUTOPS_PERSIST_WORKERS":      "0",
				"SCOUTOPS_MAX_MATCH_COUNT":      "-1",
				"SCOUTOPS_MAX_ROBOTS_PER_MATCH": "-2",
			}
			for key, val := range cases {
				clearConfigEnvVars()
				_ = os.Setenv(key, val)
				cfg, err := config.Load(ctx)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			}
			clearConfigEnvVars()
		})
	})
}

func clearConfigEnvVars() {
	for _, key := range []string{
		"SCOUTOPS_CONFIG",
		"SCOUTOPS_ADDR",
		"SCOUTOPS_LOG_FORMAT",
		"SCOUTOPS_PERSIST_QUEUE_SIZE",
		"SCOUTOPS_PERSIST_WORKERS",
		"SCOUTOPS_DEDUPE_SIZE",
		"SCOUTOPS_MAX_MATCH_COUNT",
		"SCOUTOPS_MAX_ROBOTS_PER_MATCH",
	} {
		_ = os.Unsetenv(key)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "scoutops-config-*.yaml")
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
