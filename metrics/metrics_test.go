package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManager(t *testing.T) {
	Convey("Given a manager on its own registry", t, func() {
		registry := prometheus.NewRegistry()
		m := NewManager(
			WithRegistry(registry),
			WithConstLabels(map[string]string{"version": "test"}),
			WithHistogramBuckets([]float64{0.5, 1}),
		)
		So(m.Registry(), ShouldEqual, registry)

		Convey("When videos and comparisons are recorded", func() {
			m.RecordVideo(true)
			m.RecordVideo(true)
			m.RecordVideo(false)
			m.RecordComparisons("face_vs_text", OutcomeMatch, 3)
			m.RecordComparisons("face_vs_text", OutcomeMismatch, 0)
			m.RecordAdjustments(2)
			m.ObserveDuration(200 * time.Millisecond)

			Convey("Then the counters reflect them", func() {
				So(testutil.ToFloat64(m.videos.WithLabelValues(StatusOK)), ShouldEqual, 2)
				So(testutil.ToFloat64(m.videos.WithLabelValues(StatusFailed)), ShouldEqual, 1)
				So(testutil.ToFloat64(m.comparisons.WithLabelValues("face_vs_text", OutcomeMatch)), ShouldEqual, 3)
				So(testutil.ToFloat64(m.adjustments), ShouldEqual, 2)
				So(testutil.CollectAndCount(m.duration), ShouldEqual, 1)
			})

			Convey("Then the textfile export contains them", func() {
				p := filepath.Join(t.TempDir(), "emocong.prom")
				So(m.WriteTextfile(p), ShouldBeNil)
				b, err := os.ReadFile(p)
				So(err, ShouldBeNil)
				So(string(b), ShouldContainSubstring, `emocong_analysis_videos_total{status="ok",version="test"} 2`)
				So(string(b), ShouldContainSubstring, "emocong_analysis_heuristic_adjustments_total")
			})
		})

		Convey("An empty textfile path is rejected", func() {
			So(errors.Is(m.WriteTextfile(""), ErrNoTextfile), ShouldBeTrue)
		})
	})

	Convey("A nil manager records nothing and does not panic", t, func() {
		var m *Manager
		So(func() {
			m.RecordVideo(true)
			m.RecordComparisons("x", OutcomeMatch, 1)
			m.RecordAdjustments(1)
			m.ObserveDuration(time.Second)
		}, ShouldNotPanic)
		So(m.WriteTextfile("ignored"), ShouldBeNil)
		So(m.Registry(), ShouldBeNil)
	})
}
