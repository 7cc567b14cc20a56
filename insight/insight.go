// Package insight turns analysis metrics into short findings for a human
// reader.
package insight

import "fmt"

// Change-count thresholds.
const (
	HighFaceChanges     = 6
	ModerateFaceChanges = 3
	TextChanges         = 3
)

// Match-rate thresholds.
const (
	HighFaceText   = 0.65
	MediumFaceText = 0.40
	GoodManual     = 0.70
	MediumManual   = 0.50
)

// Counts carries the change totals of one video.
type Counts struct {
	Face int
	Text int
}

// Generate returns the findings for one video in a fixed order: face
// variation, text variation (only when notable), face-vs-text congruence and
// agreement with manual labels. A nil rate means nothing was comparable.
func Generate(video string, c Counts, faceText, manual *float64) []string {
	p := func(format string, args ...any) string {
		return fmt.Sprintf("[%s] ", video) + fmt.Sprintf(format, args...)
	}
	out := make([]string, 0, 4)

	switch {
	case c.Face >= HighFaceChanges:
		out = append(out, p("High facial variation: %d changes (possible emotional instability).", c.Face))
	case c.Face >= ModerateFaceChanges:
		out = append(out, p("Moderate facial variation: %d changes.", c.Face))
	default:
		out = append(out, p("Low facial variation: %d changes.", c.Face))
	}

	if c.Text >= TextChanges {
		out = append(out, p("Emotional variation detected in text: %d changes.", c.Text))
	}

	switch {
	case faceText == nil:
		out = append(out, p("Not enough points with text emotion to measure face-text congruence."))
	case *faceText >= HighFaceText:
		out = append(out, p("High face-text congruence (match_rate=%.2f).", *faceText))
	case *faceText >= MediumFaceText:
		out = append(out, p("Medium face-text congruence (match_rate=%.2f).", *faceText))
	default:
		out = append(out, p("Low face-text congruence (match_rate=%.2f).", *faceText))
	}

	switch {
	case manual == nil:
		out = append(out, p("Not enough labeled segments to evaluate against ground truth."))
	case *manual >= GoodManual:
		out = append(out, p("Good agreement with manual labels (match_rate=%.2f).", *manual))
	case *manual >= MediumManual:
		out = append(out, p("Medium agreement with manual labels (match_rate=%.2f).", *manual))
	default:
		out = append(out, p("Low agreement with manual labels (match_rate=%.2f).", *manual))
	}
	return out
}
