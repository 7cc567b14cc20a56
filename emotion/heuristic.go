package emotion

// Default thresholds on the face model's native 0-100 score scale.
const (
	DefaultFearThreshold    = 50.0
	DefaultAngryThreshold   = 5.0
	DefaultDisgustThreshold = 0.3
)

// Heuristic corrects anger that the face model reports as fear: a fear
// prediction whose score distribution also carries noticeable anger and
// disgust mass is relabeled angry.
type Heuristic struct {
	Enabled bool    `json:"heuristic_on"`
	Fear    float64 `json:"fear"`
	Angry   float64 `json:"angry"`
	Disgust float64 `json:"disgust"`
}

// DefaultHeuristic returns the enabled heuristic with default thresholds.
func DefaultHeuristic() Heuristic {
	return Heuristic{
		Enabled: true,
		Fear:    DefaultFearThreshold,
		Angry:   DefaultAngryThreshold,
		Disgust: DefaultDisgustThreshold,
	}
}

// Adjustment keeps both sides of a heuristic decision.
type Adjustment struct {
	Raw         string
	Adjusted    string
	WasAdjusted bool
}

// Apply evaluates the heuristic for one face prediction. The condition tests
// the raw label, so applying it to an already adjusted label is a no-op.
// Missing scores count as zero.
func (h Heuristic) Apply(raw string, scores map[string]float64) Adjustment {
	adj := Adjustment{Raw: raw, Adjusted: raw}
	if !h.Enabled || Key(raw) != string(Fear) {
		return adj
	}
	if scores[string(Fear)] > h.Fear &&
		scores[string(Angry)] > h.Angry &&
		scores[string(Disgust)] > h.Disgust {
		adj.Adjusted = string(Angry)
		adj.WasAdjusted = true
	}
	return adj
}
