package timeline

import "github.com/maastricht-university/emocong/emotion"

// ChangeEvent marks a transition between two present labels on a channel.
type ChangeEvent struct {
	T      float64         `json:"t"`
	Source emotion.Channel `json:"source"`
	From   emotion.Emotion `json:"from"`
	To     emotion.Emotion `json:"to"`
}

// Detector tracks the last label seen on one channel.
//
// Absent samples are skipped entirely: they neither emit nor reset state, so
// "the modality said nothing" is treated the same as "the modality stayed in
// its previous state". That is a known simplification.
type Detector struct {
	source emotion.Channel
	last   emotion.Emotion
}

func NewDetector(source emotion.Channel) *Detector {
	return &Detector{source: source}
}

// Observe feeds one sample and returns the change it causes, if any.
func (d *Detector) Observe(t float64, label emotion.Emotion) (ChangeEvent, bool) {
	if !label.Present() {
		return ChangeEvent{}, false
	}
	prev := d.last
	d.last = label
	if !prev.Present() || prev == label {
		return ChangeEvent{}, false
	}
	return ChangeEvent{T: t, Source: d.source, From: prev, To: label}, true
}

// DetectChanges runs a fresh detector over labels (parallel to times).
func DetectChanges(source emotion.Channel, times []float64, labels []emotion.Emotion) []ChangeEvent {
	d := NewDetector(source)
	out := []ChangeEvent{}
	for i, l := range labels {
		if ev, ok := d.Observe(times[i], l); ok {
			out = append(out, ev)
		}
	}
	return out
}
