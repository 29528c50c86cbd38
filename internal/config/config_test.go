package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/iburimskiy/touch-recorder/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.WindowWidth, convey.ShouldEqual, config.WindowWidth)
			convey.So(cfg.PointerCapacity, convey.ShouldEqual, 256)
			convey.So(cfg.InputSize, convey.ShouldEqual, config.InputSize)
			convey.So(cfg.Feedback, convey.ShouldBeFalse)
			convey.So(cfg.ResetOnRelease, convey.ShouldBeFalse)
			convey.So(cfg.MetricsAddr, convey.ShouldBeEmpty)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.WindowHeight, convey.ShouldEqual, config.WindowHeight)
				convey.So(cfg.EdgeSlop, convey.ShouldEqual, config.EdgeSlop)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("TOUCHREC_METRICS_ADDR", "127.0.0.1:9464")
			_ = os.Setenv("TOUCHREC_POINTER_CAPACITY", "32")
			_ = os.Setenv("TOUCHREC_FEEDBACK", "true")
			_ = os.Setenv("TOUCHREC_RESET_ON_RELEASE", "true")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.MetricsAddr, convey.ShouldEqual, "127.0.0.1:9464")
				convey.So(cfg.PointerCapacity, convey.ShouldEqual, 32)
				convey.So(cfg.Feedback, convey.ShouldBeTrue)
				convey.So(cfg.ResetOnRelease, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := writeTemp(t, "config.yaml", `
log_level: debug
window_width: 800
input_pressure: 0.5
`)
			_ = os.Setenv("TOUCHREC_CONFIG", tmpFile)
			_ = os.Setenv("TOUCHREC_WINDOW_WIDTH", "640")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.WindowWidth, convey.ShouldEqual, 640)
				convey.So(cfg.InputPressure, convey.ShouldEqual, 0.5)
				convey.So(cfg.WindowHeight, convey.ShouldEqual, config.WindowHeight)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("TOUCHREC_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with an unusable value", func() {
			_ = os.Setenv("TOUCHREC_POINTER_CAPACITY", "0")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "pointer_capacity")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func TestPreferences(t *testing.T) {
	convey.Convey("Given preferences", t, func() {
		convey.Convey("When no file is configured", func() {
			p, err := config.LoadPreferences("")
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then the defaults apply", func() {
				r, err := p.RadiusPerUnit()
				convey.So(err, convey.ShouldBeNil)
				convey.So(r, convey.ShouldEqual, 80)
				mp, err := p.MaxPressure()
				convey.So(err, convey.ShouldBeNil)
				convey.So(mp, convey.ShouldEqual, 360)
				convey.So(p.ViewHumanReadable(), convey.ShouldBeTrue)
				convey.So(p.SaveHumanReadable(), convey.ShouldBeFalse)
				convey.So(p.DebugHumanReadable(), convey.ShouldBeFalse)
				convey.So(p.Watch(context.Background(), nil, nil), convey.ShouldBeNil)
				convey.So(p.Close(), convey.ShouldBeNil)
			})
		})

		convey.Convey("When a file overrides some values", func() {
			path := writeTemp(t, "prefs.yaml", "size: 40\nsave: true\n")
			p, err := config.LoadPreferences(path)
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then file values win and the rest keep defaults", func() {
				r, err := p.RadiusPerUnit()
				convey.So(err, convey.ShouldBeNil)
				convey.So(r, convey.ShouldEqual, 40)
				convey.So(p.SaveHumanReadable(), convey.ShouldBeTrue)
				convey.So(p.ViewHumanReadable(), convey.ShouldBeTrue)
			})

			convey.Convey("Then a reload picks up edits", func() {
				convey.So(os.WriteFile(path, []byte("size: 20\n"), 0o600), convey.ShouldBeNil)
				convey.So(p.Reload(), convey.ShouldBeNil)
				r, _ := p.RadiusPerUnit()
				convey.So(r, convey.ShouldEqual, 20)
				convey.So(p.SaveHumanReadable(), convey.ShouldBeFalse)
			})
		})

		convey.Convey("When a numeric preference is malformed", func() {
			p, err := config.LoadPreferences("")
			convey.So(err, convey.ShouldBeNil)
			convey.So(p.Set(config.KeyPressure, "lots"), convey.ShouldBeNil)

			convey.Convey("Then reading it reports a malformed setting", func() {
				_, err := p.MaxPressure()
				convey.So(errors.Is(err, config.ErrMalformedSetting), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "lots")
			})
		})

		convey.Convey("When the file does not exist", func() {
			_, err := config.LoadPreferences(filepath.Join(t.TempDir(), "missing.yaml"))
			convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
		})
	})
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func clearConfigEnvVars() {
	for _, v := range []string{
		"TOUCHREC_CONFIG",
		"TOUCHREC_LOG_LEVEL",
		"TOUCHREC_PREFERENCES",
		"TOUCHREC_METRICS_ADDR",
		"TOUCHREC_WINDOW_WIDTH",
		"TOUCHREC_WINDOW_HEIGHT",
		"TOUCHREC_POINTER_CAPACITY",
		"TOUCHREC_INPUT_SIZE",
		"TOUCHREC_INPUT_PRESSURE",
		"TOUCHREC_EDGE_SLOP",
		"TOUCHREC_FEEDBACK",
		"TOUCHREC_FEEDBACK_SOUND",
		"TOUCHREC_RESET_ON_RELEASE",
	} {
		_ = os.Unsetenv(v)
	}
}
