package multimodal

import (
	"github.com/maastricht-university/emocong/emotion"
	"github.com/maastricht-university/emocong/timeline"
)

// FaceSeries builds the face channel: heuristic first, then the face table.
// Items without a usable timestamp are dropped. The second return value
// counts heuristic adjustments.
func (r *Record) FaceSeries(h emotion.Heuristic) (timeline.Series, int) {
	obs := make([]timeline.Observation, 0, len(r.Items))
	adjusted := 0
	for _, it := range r.Items {
		t, ok := timeline.Normalize(it.T)
		if !ok {
			continue
		}
		o := timeline.Observation{T: t, RawLabel: emotion.Key(it.Face.Dominant), Scores: it.Face.Scores}
		if o.RawLabel != "" {
			adj := h.Apply(o.RawLabel, it.Face.Scores)
			o.Adjusted = adj.WasAdjusted
			if adj.WasAdjusted {
				adjusted++
			}
			o.Label, _ = emotion.Map(emotion.Face, adj.Adjusted)
		}
		obs = append(obs, o)
	}
	return timeline.NewSeries(emotion.Face, obs), adjusted
}

// TextSeries builds the text channel from each item's own classifier label.
func (r *Record) TextSeries() timeline.Series {
	obs := make([]timeline.Observation, 0, len(r.Items))
	for _, it := range r.Items {
		t, ok := timeline.Normalize(it.T)
		if !ok {
			continue
		}
		o := timeline.Observation{T: t, RawLabel: emotion.Key(it.Text.Dominant), Scores: it.Text.Scores}
		if o.RawLabel != "" {
			o.Label, _ = emotion.Map(emotion.Text, o.RawLabel)
		}
		obs = append(obs, o)
	}
	return timeline.NewSeries(emotion.Text, obs)
}

// Times returns the usable item timestamps in file order.
func (r *Record) Times() []float64 {
	out := make([]float64, 0, len(r.Items))
	for _, it := range r.Items {
		if t, ok := timeline.Normalize(it.T); ok {
			out = append(out, t)
		}
	}
	return out
}
