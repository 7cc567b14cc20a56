package store_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/maastricht-university/emocong/store"
	. "github.com/smartystreets/goconvey/convey"
)

func half() *float64 { v := 0.5; return &v }

func TestStore(t *testing.T) {
	Convey("Given a fresh store", t, func() {
		ctx := context.Background()
		s, err := store.Open(filepath.Join(t.TempDir(), "emocong.db"))
		So(err, ShouldBeNil)
		Reset(func() { s.Close() })

		runID := uuid.New().String()

		Convey("When an analysis is saved", func() {
			a := store.Analysis{
				Video:        "prueba1",
				RunID:        runID,
				NFaceChanges: 1,
				ManualRate:   half(),
				Body:         []byte(`{"video":"prueba1"}`),
			}
			So(s.SaveAnalysis(ctx, a), ShouldBeNil)

			Convey("Then it is returned with its body and nullable rates", func() {
				got, err := s.GetAnalysis(ctx, "prueba1")
				So(err, ShouldBeNil)
				So(got.RunID, ShouldEqual, runID)
				So(got.FaceTextRate, ShouldBeNil)
				So(*got.ManualRate, ShouldEqual, 0.5)
				So(string(got.Body), ShouldEqual, `{"video":"prueba1"}`)
			})

			Convey("Then saving again replaces it", func() {
				a.NFaceChanges = 4
				a.ManualRate = nil
				So(s.SaveAnalysis(ctx, a), ShouldBeNil)
				list, err := s.ListAnalyses(ctx)
				So(err, ShouldBeNil)
				So(list, ShouldHaveLength, 1)
				So(list[0].NFaceChanges, ShouldEqual, 4)
				So(list[0].ManualRate, ShouldBeNil)
				So(list[0].Body, ShouldBeEmpty)
			})
		})

		Convey("An unknown video is ErrNotFound", func() {
			_, err := s.GetAnalysis(ctx, "nope")
			So(errors.Is(err, store.ErrNotFound), ShouldBeTrue)
		})

		Convey("An empty store lists nothing", func() {
			list, err := s.ListAnalyses(ctx)
			So(err, ShouldBeNil)
			So(list, ShouldBeEmpty)
		})

		Convey("Runs are listed newest first", func() {
			t0 := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
			So(s.SaveRun(ctx, store.Run{ID: "a", OK: 2, Fail: 1, StartedAt: t0}), ShouldBeNil)
			So(s.SaveRun(ctx, store.Run{ID: "b", OK: 3, StartedAt: t0.Add(time.Hour)}), ShouldBeNil)
			runs, err := s.ListRuns(ctx)
			So(err, ShouldBeNil)
			So(runs, ShouldHaveLength, 2)
			So(runs[0].ID, ShouldEqual, "b")
			So(runs[1].Fail, ShouldEqual, 1)
			So(runs[1].StartedAt.Equal(t0), ShouldBeTrue)
		})
	})
}
