package labels_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/maastricht-university/emocong/labels"
	"github.com/maastricht-university/emocong/timeline"
	. "github.com/smartystreets/goconvey/convey"
)

func write(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", p, err)
	}
	return p
}

func TestLoad(t *testing.T) {
	Convey("Given label files in every supported shape", t, func() {
		dir := t.TempDir()

		Convey("A bare array of strings is frame indexed", func() {
			set, err := labels.Load(write(t, dir, "a.json", `["feliz", "triste"]`))
			So(err, ShouldBeNil)
			So(set.Segmented(), ShouldBeFalse)
			So(set.Records, ShouldResemble, []labels.Record{
				{Frame: 0, HasFrame: true, Raw: "feliz"},
				{Frame: 1, HasFrame: true, Raw: "triste"},
			})
		})

		Convey("A bare array of objects keeps time, frame and label fields", func() {
			set, err := labels.Load(write(t, dir, "b.json",
				`[{"time": "2.5", "emotion": "miedo"}, {"frame_idx": 3, "value": "asco"}, {"seconds": 1}, 7]`))
			So(err, ShouldBeNil)
			So(set.Records, ShouldHaveLength, 3)
			So(set.Records[0], ShouldResemble, labels.Record{T: 2.5, HasTime: true, Raw: "miedo"})
			So(set.Records[1], ShouldResemble, labels.Record{Frame: 3, HasFrame: true, Raw: "asco"})
			So(set.Records[2].Raw, ShouldEqual, "")
		})

		Convey("An object with a list-valued field is unwrapped", func() {
			set, err := labels.Load(write(t, dir, "c.json", `{"meta": 1, "annotations": ["ira"]}`))
			So(err, ShouldBeNil)
			So(set.Records, ShouldResemble, []labels.Record{{Frame: 0, HasFrame: true, Raw: "ira"}})
		})

		Convey("A frame to label map parses digits out of the keys", func() {
			set, err := labels.Load(write(t, dir, "d.json", `{"frame_0010": "feliz", "f2": "triste", "note": 5}`))
			So(err, ShouldBeNil)
			So(set.Records, ShouldResemble, []labels.Record{
				{Frame: 2, HasFrame: true, Raw: "triste"},
				{Frame: 10, HasFrame: true, Raw: "feliz"},
			})
		})

		Convey("Only ASCII digits count towards the frame index", func() {
			set, err := labels.Load(write(t, dir, "e.json", `{"cam١_frame_3": "feliz", "frame_٢": "triste"}`))
			So(err, ShouldBeNil)
			So(set.Records, ShouldResemble, []labels.Record{{Frame: 3, HasFrame: true, Raw: "feliz"}})
		})

		Convey("The segment shape is kept as segments and expanded on demand", func() {
			set, err := labels.Load(write(t, dir, "e.json",
				`{"video": "x.mp4", "segments": [{"start": 0, "end": 2, "emotion": "feliz"}, {"start": "bad", "end": 3, "emotion": "x"}, {"start": 3, "end": 4, "label": "triste"}]}`))
			So(err, ShouldBeNil)
			So(set.Segmented(), ShouldBeTrue)
			So(set.Segments, ShouldResemble, []timeline.Segment{
				{Start: 0, End: 2, Label: "feliz"},
				{Start: 3, End: 4, Label: "triste"},
			})

			recs := set.Expand([]float64{1, 2.5, 3.5})
			So(recs, ShouldResemble, []labels.Record{
				{T: 1, HasTime: true, Raw: "feliz"},
				{T: 3.5, HasTime: true, Raw: "triste"},
			})
		})

		Convey("YAML files are accepted, including numeric frame keys", func() {
			set, err := labels.Load(write(t, dir, "f.yaml", "segments:\n  - start: 0\n    end: 1\n    emotion: sorpresa\n"))
			So(err, ShouldBeNil)
			So(set.Segments[0].Label, ShouldEqual, "sorpresa")

			set, err = labels.Load(write(t, dir, "g.yml", "4: feliz\n1: triste\n"))
			So(err, ShouldBeNil)
			So(set.Records[0].Frame, ShouldEqual, 1)
			So(set.Records[1].Raw, ShouldEqual, "feliz")
		})

		Convey("An unknown shape fails naming the file", func() {
			p := write(t, dir, "h.json", `{"video": "x", "segments": []}`)
			_, err := labels.Load(p)
			So(errors.Is(err, labels.ErrUnrecognizedFormat), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, p)

			_, err = labels.Load(write(t, dir, "i.json", `42`))
			So(errors.Is(err, labels.ErrUnrecognizedFormat), ShouldBeTrue)
		})

		Convey("A missing file surfaces the os error", func() {
			_, err := labels.Load(filepath.Join(dir, "nope.json"))
			So(errors.Is(err, os.ErrNotExist), ShouldBeTrue)
		})
	})
}

func TestResolve(t *testing.T) {
	Convey("Given a labels directory with a capitalized file", t, func() {
		dir := t.TempDir()
		write(t, dir, "Prueba1_labels.json", `[]`)

		Convey("A lower-case video name resolves to it", func() {
			p, err := labels.Resolve(dir, "prueba1")
			So(err, ShouldBeNil)
			So(filepath.Base(p), ShouldEqual, "Prueba1_labels.json")
		})

		Convey("An unknown video is a not-exist error", func() {
			_, err := labels.Resolve(dir, "prueba2")
			So(errors.Is(err, os.ErrNotExist), ShouldBeTrue)
		})
	})

	Convey("Given a video path", t, func() {
		tpl := labels.NewTemplate("data/raw/Prueba1.mp4")
		So(tpl.Segments, ShouldHaveLength, 1)
		So(labels.DefaultTemplatePath("data/labels", "data/raw/Prueba1.mp4"), ShouldEqual, filepath.Join("data/labels", "Prueba1_labels.json"))
	})
}
