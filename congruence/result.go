// Package congruence measures agreement between asynchronous emotion
// signals: the face stream against the text stream, and the smoothed face
// stream against manual annotations.
package congruence

import "github.com/maastricht-university/emocong/emotion"

// Rate returns match/(match+mismatch), or nil when nothing was comparable.
// nil means "insufficient data" and is distinct from 0.
func Rate(match, mismatch int) *float64 {
	n := match + mismatch
	if n == 0 {
		return nil
	}
	r := float64(match) / float64(n)
	return &r
}

// FaceTextResult aggregates the face-vs-text comparison of one video.
type FaceTextResult struct {
	TotalWithText         int      `json:"total_with_text"`
	Match                 int      `json:"match"`
	Mismatch              int      `json:"mismatch"`
	MatchRate             *float64 `json:"match_rate"`
	SkippedNoFace         int      `json:"skipped_no_face"`
	SkippedNoText         int      `json:"skipped_no_text"`
	SkippedUnmappableFace int      `json:"skipped_unmappable_face"`
	SkippedUnmappableText int      `json:"skipped_unmappable_text"`
	TextSegments          int      `json:"text_segments"`
}

// Signal names recorded in ManualResult.
const (
	SignalFaceSmoothed = "face_smoothed"
	SignalFaceRaw      = "face_raw"
	TaxonomyManual     = "normalized_manual_map"
)

// ManualResult aggregates the comparison against manual ground truth.
type ManualResult struct {
	LabelsPath     string   `json:"labels_path"`
	GTTaxonomy     string   `json:"gt_taxonomy"`
	ComparedSignal string   `json:"compared_signal"`
	SmoothWindow   int      `json:"smooth_window"`
	TotalLabeled   int      `json:"total_labeled"`
	Match          int      `json:"match"`
	Mismatch       int      `json:"mismatch"`
	MatchRate      *float64 `json:"match_rate"`
	// UnknownFrames counts labels with no ground-truth mapping or no usable
	// position.
	UnknownFrames int `json:"unknown_frames"`
	// SkippedNoPred counts labels for which no comparable prediction exists.
	SkippedNoPred int `json:"skipped_no_pred"`

	NAdjusted   int        `json:"n_adjusted"`
	HeuristicOn bool       `json:"heuristic_on"`
	Thresholds  Thresholds `json:"thresholds"`
}

type Thresholds struct {
	Fear    float64 `json:"fear"`
	Angry   float64 `json:"angry"`
	Disgust float64 `json:"disgust"`
}

func thresholdsOf(h emotion.Heuristic) Thresholds {
	return Thresholds{Fear: h.Fear, Angry: h.Angry, Disgust: h.Disgust}
}
