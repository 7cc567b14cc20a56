package congruence

import (
	"github.com/maastricht-university/emocong/emotion"
	"github.com/maastricht-university/emocong/multimodal"
	"github.com/maastricht-university/emocong/timeline"
)

// FaceVsText compares the face label of each timestamped item with its text
// label. The text label is the item's own classifier output or, when that is
// absent, the label of the collapsed text run covering the item's time.
func FaceVsText(rec *multimodal.Record, h emotion.Heuristic) FaceTextResult {
	face, _ := rec.FaceSeries(h)
	text := rec.TextSeries()
	runs := timeline.CollapseRuns(text)

	res := FaceTextResult{TextSegments: len(runs)}
	// both series come from the same items and the same stable sort, so
	// index i refers to the same item in each
	for i, f := range face.Observations {
		switch {
		case f.RawLabel == "":
			res.SkippedNoFace++
			continue
		case !f.Label.Canonical():
			res.SkippedUnmappableFace++
			continue
		}

		tx := text.Observations[i]
		tl := tx.Label
		if !tl.Present() {
			if lbl, ok := timeline.LabelAt(runs, f.T); ok {
				tl = emotion.Emotion(lbl)
			}
		}
		switch {
		case !tl.Present() && tx.RawLabel != "":
			res.SkippedUnmappableText++
			continue
		case !tl.Present():
			res.SkippedNoText++
			continue
		case !tl.Canonical():
			res.SkippedUnmappableText++
			continue
		}

		res.TotalWithText++
		if f.Label == tl {
			res.Match++
		} else {
			res.Mismatch++
		}
	}
	res.MatchRate = Rate(res.Match, res.Mismatch)
	return res
}
