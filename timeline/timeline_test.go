package timeline_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/maastricht-university/emocong/emotion"
	"github.com/maastricht-university/emocong/timeline"
	. "github.com/smartystreets/goconvey/convey"
)

func labels(ss ...string) []emotion.Emotion {
	out := make([]emotion.Emotion, len(ss))
	for i, s := range ss {
		out[i] = emotion.Emotion(s)
	}
	return out
}

func TestNormalize(t *testing.T) {
	Convey("Given heterogeneous timestamp values", t, func() {
		Convey("nil is absent", func() {
			_, ok := timeline.Normalize(nil)
			So(ok, ShouldBeFalse)
		})
		Convey("numeric strings parse", func() {
			v, ok := timeline.Normalize("3.5")
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 3.5)

			v, ok = timeline.Normalize(" 7 ")
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 7.0)
		})
		Convey("garbage is absent", func() {
			_, ok := timeline.Normalize("abc")
			So(ok, ShouldBeFalse)
			_, ok = timeline.Normalize(map[string]any{"t": 1})
			So(ok, ShouldBeFalse)
			_, ok = timeline.Normalize(true)
			So(ok, ShouldBeFalse)
		})
		Convey("numbers of every kind pass", func() {
			v, ok := timeline.Normalize(2)
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 2.0)
			v, ok = timeline.Normalize(json.Number("1.25"))
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 1.25)
		})
		Convey("negative, NaN and infinite values are unusable", func() {
			_, ok := timeline.Normalize(-1.0)
			So(ok, ShouldBeFalse)
			_, ok = timeline.Normalize(math.NaN())
			So(ok, ShouldBeFalse)
			_, ok = timeline.Normalize("inf")
			So(ok, ShouldBeFalse)
		})
		Convey("Float accepts negatives", func() {
			v, ok := timeline.Float("-2")
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, -2.0)
		})
	})
}

func TestLabelAt(t *testing.T) {
	Convey("Given overlapping segments", t, func() {
		segs := []timeline.Segment{
			{Start: 0, End: 5, Label: "a"},
			{Start: 4, End: 10, Label: "b"},
		}
		Convey("The first match in input order wins", func() {
			l, ok := timeline.LabelAt(segs, 4.5)
			So(ok, ShouldBeTrue)
			So(l, ShouldEqual, "a")
		})
		Convey("Bounds are inclusive", func() {
			l, _ := timeline.LabelAt(segs, 10)
			So(l, ShouldEqual, "b")
			l, _ = timeline.LabelAt(segs, 0)
			So(l, ShouldEqual, "a")
		})
		Convey("Uncovered times are absent", func() {
			_, ok := timeline.LabelAt(segs, 11)
			So(ok, ShouldBeFalse)
			_, ok = timeline.LabelAt(nil, 1)
			So(ok, ShouldBeFalse)
		})
	})
}

func TestSeries(t *testing.T) {
	Convey("Given unordered observations with equal timestamps", t, func() {
		obs := []timeline.Observation{
			{T: 2, Label: emotion.Sad},
			{T: 1, Label: emotion.Happy, RawLabel: "first"},
			{T: 1, Label: emotion.Angry, RawLabel: "second"},
		}
		s := timeline.NewSeries(emotion.Face, obs)

		Convey("They are sorted by time with ties kept in insertion order", func() {
			So(s.Times(), ShouldResemble, []float64{1, 1, 2})
			So(s.Observations[0].RawLabel, ShouldEqual, "first")
			So(s.Observations[1].RawLabel, ShouldEqual, "second")
		})
		Convey("The input slice is not touched", func() {
			So(obs[0].T, ShouldEqual, 2.0)
		})
	})

	Convey("Given runs of text labels", t, func() {
		s := timeline.NewSeries(emotion.Text, []timeline.Observation{
			{T: 0, Label: emotion.Happy},
			{T: 1, Label: emotion.Happy},
			{T: 2},
			{T: 3, Label: emotion.Happy},
			{T: 4, Label: emotion.Sad},
			{T: 5, Label: emotion.Happy},
		})
		runs := timeline.CollapseRuns(s)

		Convey("Consecutive equal labels collapse into maximal runs", func() {
			So(runs, ShouldResemble, []timeline.Segment{
				{Start: 0, End: 3, Label: "happy"},
				{Start: 4, End: 4, Label: "sad"},
				{Start: 5, End: 5, Label: "happy"},
			})
		})
		Convey("An absent sample inside a run resolves through the run", func() {
			l, ok := timeline.LabelAt(runs, 2)
			So(ok, ShouldBeTrue)
			So(l, ShouldEqual, "happy")
		})
	})

	Convey("Given a nearest-neighbour lookup", t, func() {
		times := []float64{0, 1, 2, 3}
		lbls := labels("happy", "", "sad", "sad")

		Convey("Absent samples are ignored", func() {
			i, ok := timeline.Nearest(times, lbls, 0.9)
			So(ok, ShouldBeTrue)
			So(i, ShouldEqual, 0)

			i, ok = timeline.Nearest(times, lbls, 1.1)
			So(ok, ShouldBeTrue)
			So(i, ShouldEqual, 2)
		})
		Convey("Ties go to the first found", func() {
			i, _ := timeline.Nearest([]float64{0, 2}, labels("happy", "sad"), 1)
			So(i, ShouldEqual, 0)
		})
		Convey("An all-absent series has no neighbour", func() {
			_, ok := timeline.Nearest(times, labels("", "", "", ""), 1)
			So(ok, ShouldBeFalse)
		})
	})
}

func TestSmooth(t *testing.T) {
	Convey("Given a label sequence", t, func() {
		Convey("A single outlier is voted away", func() {
			out := timeline.Smooth(labels("a", "a", "b", "a", "a"), 3)
			So(out[2], ShouldEqual, emotion.Emotion("a"))
		})
		Convey("An empty sequence stays empty", func() {
			So(timeline.Smooth(nil, 5), ShouldBeEmpty)
			So(timeline.Smooth([]emotion.Emotion{}, 5), ShouldBeEmpty)
		})
		Convey("k <= 1 passes values through", func() {
			in := labels("a", "", "b")
			So(timeline.Smooth(in, 1), ShouldResemble, in)
			So(timeline.Smooth(in, 0), ShouldResemble, in)
		})
		Convey("Ties go to the label earliest in the window", func() {
			out := timeline.Smooth(labels("s", "h", "h", "s"), 5)
			// window of index 1 is the whole slice: s=2, h=2
			So(out[1], ShouldEqual, emotion.Emotion("s"))
		})
		Convey("Absent entries are dropped and an empty window stays absent", func() {
			out := timeline.Smooth(labels("", "", "", "", "", "a"), 3)
			So(out[0].Present(), ShouldBeFalse)
			So(out[4], ShouldEqual, emotion.Emotion("a"))
			So(out[5], ShouldEqual, emotion.Emotion("a"))
		})
		Convey("The input is not modified", func() {
			in := labels("a", "b", "a")
			_ = timeline.Smooth(in, 3)
			So(in, ShouldResemble, labels("a", "b", "a"))
		})
	})
}

func TestDetectChanges(t *testing.T) {
	Convey("Given a single channel", t, func() {
		Convey("Only transitions between present labels are emitted", func() {
			evs := timeline.DetectChanges(emotion.Face,
				[]float64{0, 1, 2, 3, 4},
				labels("happy", "happy", "sad", "sad", "angry"))
			So(len(evs), ShouldEqual, 2)
			So(evs[0], ShouldResemble, timeline.ChangeEvent{T: 2, Source: emotion.Face, From: emotion.Happy, To: emotion.Sad})
			So(evs[1], ShouldResemble, timeline.ChangeEvent{T: 4, Source: emotion.Face, From: emotion.Sad, To: emotion.Angry})
		})
		Convey("Absent samples neither trigger nor block a change", func() {
			evs := timeline.DetectChanges(emotion.Text,
				[]float64{0, 1, 2},
				labels("happy", "", "sad"))
			So(len(evs), ShouldEqual, 1)
			So(evs[0].From, ShouldEqual, emotion.Happy)
			So(evs[0].To, ShouldEqual, emotion.Sad)
			So(evs[0].T, ShouldEqual, 2.0)
		})
		Convey("A leading absent sample does not emit", func() {
			d := timeline.NewDetector(emotion.Face)
			_, ok := d.Observe(0, "")
			So(ok, ShouldBeFalse)
			_, ok = d.Observe(1, emotion.Happy)
			So(ok, ShouldBeFalse)
		})
		Convey("No labels yield an empty, non-nil slice", func() {
			evs := timeline.DetectChanges(emotion.Face, nil, nil)
			So(evs, ShouldNotBeNil)
			So(evs, ShouldBeEmpty)
		})
	})
}
