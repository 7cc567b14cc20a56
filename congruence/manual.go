package congruence

import (
	"github.com/maastricht-university/emocong/emotion"
	"github.com/maastricht-university/emocong/labels"
	"github.com/maastricht-university/emocong/multimodal"
	"github.com/maastricht-university/emocong/timeline"
)

// ManualOptions configures FaceVsManual. The zero Window means
// timeline.DefaultWindow.
type ManualOptions struct {
	Heuristic emotion.Heuristic
	Window    int
	// Raw compares against the unsmoothed face labels. Manual annotations
	// are coarse, so this is only useful for diagnostics.
	Raw bool
}

// FaceVsManual compares manual labels against the smoothed face series.
//
// A label positioned by time is compared with the nearest present smoothed
// observation. A label positioned only by frame is compared with the
// smoothed label at that index of the time-ordered face series. Labels that
// do not map to the canonical set, or that carry no usable position, count
// as unknown_frames; labels with nothing to compare against count as
// skipped_no_pred.
func FaceVsManual(rec *multimodal.Record, set *labels.Set, opts ManualOptions) ManualResult {
	if opts.Window <= 0 {
		opts.Window = timeline.DefaultWindow
	}
	face, adjusted := rec.FaceSeries(opts.Heuristic)
	times := face.Times()
	pred := face.Labels()
	signal := SignalFaceRaw
	if !opts.Raw {
		pred = timeline.Smooth(pred, opts.Window)
		signal = SignalFaceSmoothed
	}

	res := ManualResult{
		LabelsPath:     set.Path,
		GTTaxonomy:     TaxonomyManual,
		ComparedSignal: signal,
		SmoothWindow:   opts.Window,
		NAdjusted:      adjusted,
		HeuristicOn:    opts.Heuristic.Enabled,
		Thresholds:     thresholdsOf(opts.Heuristic),
	}
	if opts.Raw {
		res.SmoothWindow = 0
	}

	for _, lb := range set.Expand(rec.Times()) {
		gt, ok := emotion.Map(emotion.Manual, lb.Raw)
		if !ok {
			res.UnknownFrames++
			continue
		}

		var p emotion.Emotion
		switch {
		case lb.HasTime:
			if i, ok := timeline.Nearest(times, pred, lb.T); ok {
				p = pred[i]
			}
		case lb.HasFrame:
			if lb.Frame >= 0 && lb.Frame < len(pred) {
				p = pred[lb.Frame]
			}
		default:
			res.UnknownFrames++
			continue
		}
		if !p.Present() {
			res.SkippedNoPred++
			continue
		}

		res.TotalLabeled++
		if p == gt {
			res.Match++
		} else {
			res.Mismatch++
		}
	}
	res.MatchRate = Rate(res.Match, res.Mismatch)
	return res
}
