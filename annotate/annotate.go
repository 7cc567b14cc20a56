// Package annotate runs the face and text classifiers over a video's frames
// and transcript. Classifier handles are built once by the caller and passed
// in; per-item failures are recorded as Skipped outcomes and never abort the
// stage.
package annotate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/maastricht-university/emocong/multimodal"
)

// FaceClassifier labels the face in one frame image.
type FaceClassifier interface {
	ClassifyFace(ctx context.Context, imgPath string) (dominant string, scores map[string]float64, err error)
}

// TextClassifier labels the emotion of one utterance.
type TextClassifier interface {
	ClassifyText(ctx context.Context, text string) (dominant string, scores map[string]float64, err error)
}

// Skip reasons not coming from a classifier error.
const (
	ReasonEmptyText  = "empty_text"
	ReasonNoDominant = "no_dominant"
)

// Outcome is the per-item result: a label with scores, or the reason the
// item was skipped.
type Outcome struct {
	Label  string
	Scores map[string]float64
	Reason string
}

func Ok(label string, scores map[string]float64) Outcome {
	return Outcome{Label: label, Scores: scores}
}

func Skipped(reason string) Outcome { return Outcome{Reason: reason} }

func (o Outcome) IsOk() bool { return o.Reason == "" }

// Stats summarizes a stage run.
type Stats struct {
	OK      int            `json:"ok"`
	Skipped int            `json:"skipped"`
	Reasons map[string]int `json:"reasons,omitempty"`
}

func (s *Stats) add(o Outcome) {
	if o.IsOk() {
		s.OK++
		return
	}
	s.Skipped++
	if s.Reasons == nil {
		s.Reasons = map[string]int{}
	}
	s.Reasons[o.Reason]++
}

func classify(ctx context.Context, f func(context.Context, string) (string, map[string]float64, error), in string) Outcome {
	dom, scores, err := f(ctx, in)
	switch {
	case err != nil:
		return Skipped(err.Error())
	case strings.TrimSpace(dom) == "":
		return Skipped(ReasonNoDominant)
	}
	return Ok(strings.TrimSpace(dom), scores)
}

var frameTime = regexp.MustCompile(`(?i)_t([0-9]+(?:\.[0-9]+)?)\.jpg$`)

// FrameTime parses the timestamp embedded in names like
// frame_000012_t6.00.jpg.
func FrameTime(name string) (float64, bool) {
	m := frameTime.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	t, err := strconv.ParseFloat(m[1], 64)
	return t, err == nil
}

// Frames classifies every .jpg in dir. Frames whose name carries no
// timestamp keep a null time and sort last.
func Frames(ctx context.Context, fc FaceClassifier, dir string) (*multimodal.FaceTimeseries, Stats, error) {
	var st Stats
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, st, fmt.Errorf("frames %s: %w", dir, err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(strings.ToLower(e.Name()), ".jpg") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	out := &multimodal.FaceTimeseries{FramesDir: dir, NFrames: len(names), Items: []multimodal.FaceFrame{}}
	if len(names) == 0 {
		out.Errors = []string{"no .jpg frames in " + dir}
		return out, st, nil
	}

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, st, err
		}
		ff := multimodal.FaceFrame{Frame: name}
		if t, ok := FrameTime(name); ok {
			ff.T = t
		}
		o := classify(ctx, fc.ClassifyFace, filepath.Join(dir, name))
		st.add(o)
		if o.IsOk() {
			ff.DominantEmotion, ff.Scores = o.Label, o.Scores
		} else {
			ff.Error = o.Reason
		}
		out.Items = append(out.Items, ff)
	}

	sort.SliceStable(out.Items, func(i, j int) bool {
		ti, iok := out.Items[i].T.(float64)
		tj, jok := out.Items[j].T.(float64)
		switch {
		case iok != jok:
			return iok
		case iok && ti != tj:
			return ti < tj
		}
		return out.Items[i].Frame < out.Items[j].Frame
	})
	return out, st, nil
}

// Transcript classifies every transcript segment, in order.
func Transcript(ctx context.Context, tc TextClassifier, tr *multimodal.Transcript) (*multimodal.TextEmotions, Stats, error) {
	var st Stats
	out := &multimodal.TextEmotions{NSegments: len(tr.Segments), Items: make([]multimodal.TextEmotion, 0, len(tr.Segments))}
	for _, seg := range tr.Segments {
		if err := ctx.Err(); err != nil {
			return nil, st, err
		}
		te := multimodal.TextEmotion{Start: seg.Start, End: seg.End, Text: strings.TrimSpace(seg.Text)}
		o := Skipped(ReasonEmptyText)
		if te.Text != "" {
			o = classify(ctx, tc.ClassifyText, te.Text)
		}
		st.add(o)
		if o.IsOk() {
			te.DominantEmotion, te.Scores = o.Label, o.Scores
		} else {
			te.Error = o.Reason
		}
		out.Items = append(out.Items, te)
	}
	return out, st, nil
}
