package emotion_test

import (
	"strings"
	"testing"

	"github.com/maastricht-university/emocong/emotion"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMap(t *testing.T) {
	Convey("Given the channel mapping tables", t, func() {
		for _, ch := range []emotion.Channel{emotion.Face, emotion.Text, emotion.Manual} {
			Convey("For the "+string(ch)+" channel every key is case and whitespace insensitive", func() {
				for _, k := range emotion.Vocabulary(ch) {
					want, ok := emotion.Map(ch, k)
					So(ok, ShouldBeTrue)
					So(want.Canonical(), ShouldBeTrue)

					upper, ok := emotion.Map(ch, strings.ToUpper(k))
					So(ok, ShouldBeTrue)
					So(upper, ShouldEqual, want)

					padded, ok := emotion.Map(ch, " "+k+" ")
					So(ok, ShouldBeTrue)
					So(padded, ShouldEqual, want)
				}
			})
		}

		Convey("When a label is unknown", func() {
			for _, ch := range []emotion.Channel{emotion.Face, emotion.Text, emotion.Manual} {
				e, ok := emotion.Map(ch, "contempt")
				So(ok, ShouldBeFalse)
				So(e.Present(), ShouldBeFalse)
			}
		})

		Convey("The no-clear-emotion token maps to neutral for text and manual only", func() {
			e, ok := emotion.Map(emotion.Text, "others")
			So(ok, ShouldBeTrue)
			So(e, ShouldEqual, emotion.Neutral)

			e, ok = emotion.Map(emotion.Manual, "Others")
			So(ok, ShouldBeTrue)
			So(e, ShouldEqual, emotion.Neutral)

			_, ok = emotion.Map(emotion.Face, "others")
			So(ok, ShouldBeFalse)
		})

		Convey("Spanish manual terms resolve", func() {
			e, _ := emotion.Map(emotion.Manual, "Feliz")
			So(e, ShouldEqual, emotion.Happy)
			e, _ = emotion.Map(emotion.Manual, "ALEGRÍA")
			So(e, ShouldEqual, emotion.Happy)
			e, _ = emotion.Map(emotion.Manual, "enojado")
			So(e, ShouldEqual, emotion.Angry)
		})

		Convey("Text model names resolve", func() {
			e, _ := emotion.Map(emotion.Text, "joy")
			So(e, ShouldEqual, emotion.Happy)
			e, _ = emotion.Map(emotion.Text, "sadness")
			So(e, ShouldEqual, emotion.Sad)
		})
	})
}

func TestHeuristic(t *testing.T) {
	Convey("Given the default heuristic", t, func() {
		h := emotion.DefaultHeuristic()

		Convey("When fear carries anger and disgust mass", func() {
			adj := h.Apply("fear", map[string]float64{"fear": 60, "angry": 10, "disgust": 1})

			Convey("Then it is relabeled angry and the raw label kept", func() {
				So(adj.Adjusted, ShouldEqual, "angry")
				So(adj.WasAdjusted, ShouldBeTrue)
				So(adj.Raw, ShouldEqual, "fear")
			})
		})

		Convey("When disgust is below its threshold", func() {
			adj := h.Apply("fear", map[string]float64{"fear": 60, "angry": 10, "disgust": 0.1})

			Convey("Then the label stays fear", func() {
				So(adj.Adjusted, ShouldEqual, "fear")
				So(adj.WasAdjusted, ShouldBeFalse)
			})
		})

		Convey("When the raw label is not fear", func() {
			adj := h.Apply("sad", map[string]float64{"fear": 60, "angry": 10, "disgust": 1})
			So(adj.Adjusted, ShouldEqual, "sad")
			So(adj.WasAdjusted, ShouldBeFalse)
		})

		Convey("When applied to an already adjusted label", func() {
			scores := map[string]float64{"fear": 60, "angry": 10, "disgust": 1}
			first := h.Apply("fear", scores)
			second := h.Apply(first.Adjusted, scores)
			So(second.Adjusted, ShouldEqual, first.Adjusted)
			So(second.WasAdjusted, ShouldBeFalse)
		})

		Convey("When scores are missing", func() {
			adj := h.Apply("fear", nil)
			So(adj.WasAdjusted, ShouldBeFalse)
		})

		Convey("When the heuristic is switched off", func() {
			h.Enabled = false
			adj := h.Apply("fear", map[string]float64{"fear": 60, "angry": 10, "disgust": 1})
			So(adj.Adjusted, ShouldEqual, "fear")
			So(adj.WasAdjusted, ShouldBeFalse)
		})
	})
}
