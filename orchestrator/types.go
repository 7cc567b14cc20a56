package orchestrator

import (
	"github.com/maastricht-university/emocong/congruence"
	"github.com/maastricht-university/emocong/multimodal"
	"github.com/maastricht-university/emocong/timeline"
)

// Analysis is the per-video report written to <outputs>/<video>_analysis.json.
type Analysis struct {
	Video      string      `json:"video"`
	Changes    Changes     `json:"changes"`
	Metrics    Metrics     `json:"metrics"`
	Insights   []string    `json:"insights"`
	Timeseries *Timeseries `json:"timeseries,omitempty"`
}

type Changes struct {
	NFaceChanges int                    `json:"n_face_changes"`
	NTextChanges int                    `json:"n_text_changes"`
	FaceChanges  []timeline.ChangeEvent `json:"face_changes"`
	TextChanges  []timeline.ChangeEvent `json:"text_changes"`
}

type Metrics struct {
	FaceVsText congruence.FaceTextResult `json:"face_vs_text"`
	VsManual   congruence.ManualResult   `json:"vs_manual_labels"`
}

// Timeseries exposes the face signal the metrics were computed from. Absent
// labels are empty strings.
type Timeseries struct {
	T            []float64 `json:"t"`
	FaceRaw      []string  `json:"face_raw"`
	FaceSmoothed []string  `json:"face_smoothed"`
}

// VideoResult is the outcome of one video in a batch.
type VideoResult struct {
	Video  string `json:"video"`
	Output string `json:"output,omitempty"`
	Error  string `json:"error,omitempty"`
	Err    error  `json:"-"`
}

// Summary is the outcome of a batch.
type Summary struct {
	RunID   string        `json:"run_id"`
	OK      int           `json:"ok"`
	Fail    int           `json:"fail"`
	Results []VideoResult `json:"results"`
}

// MergeResult is the outcome of merging one video.
type MergeResult struct {
	VideoResult
	Stats multimodal.MergeStats `json:"stats"`
}
