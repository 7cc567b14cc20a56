package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/maastricht-university/emocong/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLoad(t *testing.T) {
	Convey("Given no config file", t, func() {
		cfg, err := config.Default()
		So(err, ShouldBeNil)

		Convey("Every key has a default", func() {
			So(cfg.Smoothing.Window, ShouldEqual, 5)
			So(cfg.Heuristic.Enabled, ShouldBeTrue)
			So(cfg.Heuristic.Fear, ShouldEqual, 50.0)
			So(cfg.Heuristic.Disgust, ShouldEqual, 0.3)
			So(cfg.Classifier.Text, ShouldEqual, "http")
			So(cfg.Output.IncludeTimeseries, ShouldBeFalse)
			So(cfg.Paths.Labels, ShouldEqual, "data/labels")
		})
	})

	Convey("Given a YAML file and an environment override", t, func() {
		dir := t.TempDir()
		p := filepath.Join(dir, "config.yaml")
		body := "pipeline:\n  log_level: debug\nheuristic:\n  enabled: false\n  fear: 40\npaths:\n  outputs: /tmp/out\n"
		So(os.WriteFile(p, []byte(body), 0o644), ShouldBeNil)
		t.Setenv("EMOCONG_SMOOTHING_WINDOW", "3")

		cfg, err := config.Load(p)
		So(err, ShouldBeNil)

		Convey("File values replace defaults", func() {
			So(cfg.Pipeline.LogLvl, ShouldEqual, "debug")
			So(cfg.Heuristic.Enabled, ShouldBeFalse)
			So(cfg.Heuristic.Fear, ShouldEqual, 40.0)
			So(cfg.Heuristic.Angry, ShouldEqual, 5.0)
			So(cfg.Paths.Outputs, ShouldEqual, "/tmp/out")
		})

		Convey("The environment wins over the file", func() {
			So(cfg.Smoothing.Window, ShouldEqual, 3)
		})
	})

	Convey("Given invalid settings", t, func() {
		dir := t.TempDir()
		p := filepath.Join(dir, "bad.yaml")
		So(os.WriteFile(p, []byte("smoothing:\n  window: 0\n"), 0o644), ShouldBeNil)
		_, err := config.Load(p)
		So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)

		So(os.WriteFile(p, []byte("pipeline:\n  name: emo-cong\n"), 0o644), ShouldBeNil)
		_, err = config.Load(p)
		So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)

		t.Setenv("EMOCONG_CLASSIFIER_TEXT", "carrier-pigeon")
		_, err = config.Default()
		So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
	})

	Convey("An explicit path that does not exist is an error", t, func() {
		_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
		So(err, ShouldNotBeNil)
	})

	Convey("Candidates follow CONFIG_ENV", t, func() {
		t.Setenv("CONFIG_ENV", "prod")
		So(config.Candidates()[0], ShouldEqual, filepath.Join("config", "prod", "config.yaml"))
	})
}
