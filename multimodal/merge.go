package multimodal

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/maastricht-university/emocong/timeline"
)

// FaceTimeseries is the per-frame output of the face classifier stage.
type FaceTimeseries struct {
	FramesDir string      `json:"frames_dir"`
	NFrames   int         `json:"n_frames"`
	Items     []FaceFrame `json:"items"`
	Errors    []string    `json:"errors,omitempty"`
}

type FaceFrame struct {
	T               any    `json:"t"`
	Frame           string `json:"frame"`
	DominantEmotion string `json:"dominant_emotion,omitempty"`
	Scores          Scores `json:"scores,omitempty"`
	Error           string `json:"error,omitempty"`
}

// Transcript is the speech-to-text output.
type Transcript struct {
	Language            string              `json:"language,omitempty"`
	LanguageProbability float64             `json:"language_probability,omitempty"`
	Segments            []TranscriptSegment `json:"segments"`
}

type TranscriptSegment struct {
	Start any    `json:"start"`
	End   any    `json:"end"`
	Text  string `json:"text"`
}

// TextEmotions is the per-utterance output of the text classifier stage.
type TextEmotions struct {
	NSegments int           `json:"n_segments"`
	Items     []TextEmotion `json:"items"`
}

type TextEmotion struct {
	Start           any    `json:"start"`
	End             any    `json:"end"`
	Text            string `json:"text"`
	DominantEmotion string `json:"dominant_emotion,omitempty"`
	Scores          Scores `json:"scores,omitempty"`
	Error           string `json:"error,omitempty"`
}

// MergeStats counts frames left out of a merged record.
type MergeStats struct {
	Synced        int `json:"n_synced"`
	DroppedNoT    int `json:"dropped_no_t"`
	DroppedNoFace int `json:"dropped_no_face"`
	DroppedError  int `json:"dropped_error"`
}

type bounded struct {
	start, end float64
	idx        int
}

func bounds[T any](xs []T, get func(T) (any, any)) []bounded {
	out := make([]bounded, 0, len(xs))
	for i, x := range xs {
		s, e := get(x)
		start, ok1 := timeline.Normalize(s)
		end, ok2 := timeline.Normalize(e)
		if !ok1 || !ok2 {
			continue
		}
		out = append(out, bounded{start: start, end: end, idx: i})
	}
	return out
}

func find(bs []bounded, t float64) (bounded, bool) {
	for _, b := range bs {
		if b.start <= t && t <= b.end {
			return b, true
		}
	}
	return bounded{}, false
}

// Merge joins the face time series with the transcript utterance covering
// each frame and, when available, that utterance's text emotion. One item is
// produced per frame with a usable timestamp and a face prediction; items
// are ordered by time.
func Merge(video string, face *FaceTimeseries, tr *Transcript, te *TextEmotions) (*Record, MergeStats) {
	var st MergeStats
	segs := bounds(tr.Segments, func(s TranscriptSegment) (any, any) { return s.Start, s.End })
	var emos []bounded
	if te != nil {
		emos = bounds(te.Items, func(e TextEmotion) (any, any) { return e.Start, e.End })
	}

	rec := &Record{Video: video, Items: []Item{}}
	times := []float64{}
	for _, f := range face.Items {
		t, ok := timeline.Normalize(f.T)
		if !ok {
			st.DroppedNoT++
			continue
		}
		if f.Error != "" {
			st.DroppedError++
			continue
		}
		if strings.TrimSpace(f.DominantEmotion) == "" {
			st.DroppedNoFace++
			continue
		}

		it := Item{
			T:     t,
			Frame: f.Frame,
			Face:  FacePayload{Dominant: f.DominantEmotion, Scores: f.Scores},
			Text:  TextPayload{Kind: TextSegmented},
		}
		if seg, ok := find(segs, t); ok {
			start, end := seg.start, seg.end
			it.Text.SegmentStart, it.Text.SegmentEnd = &start, &end
			it.Text.Content = strings.TrimSpace(tr.Segments[seg.idx].Text)
			if e, ok := find(emos, t); ok {
				it.Text.Dominant = te.Items[e.idx].DominantEmotion
				it.Text.Scores = te.Items[e.idx].Scores
			}
		}
		rec.Items = append(rec.Items, it)
		times = append(times, t)
	}

	idx := make([]int, len(rec.Items))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return times[idx[a]] < times[idx[b]] })
	sorted := make([]Item, len(idx))
	for i, j := range idx {
		sorted[i] = rec.Items[j]
	}
	rec.Items = sorted
	rec.NItems = len(sorted)
	st.Synced = len(sorted)
	return rec, st
}

func readJSON(path string, v any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func LoadFaceTimeseries(path string) (*FaceTimeseries, error) {
	var v FaceTimeseries
	if err := readJSON(path, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func LoadTranscript(path string) (*Transcript, error) {
	var v Transcript
	if err := readJSON(path, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func LoadTextEmotions(path string) (*TextEmotions, error) {
	var v TextEmotions
	if err := readJSON(path, &v); err != nil {
		return nil, err
	}
	return &v, nil
}
