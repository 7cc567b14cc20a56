package timeline

import (
	"sort"

	"github.com/maastricht-university/emocong/emotion"
)

// Observation is one sample on one channel.
type Observation struct {
	T        float64
	Label    emotion.Emotion
	RawLabel string
	Scores   map[string]float64
	// Adjusted marks face samples relabeled by the misclassification heuristic.
	Adjusted bool
}

// Series is the ordered observation sequence of one channel. It is not
// modified after NewSeries returns.
type Series struct {
	Channel      emotion.Channel
	Observations []Observation
}

// NewSeries copies obs and sorts it by time; ties keep insertion order.
func NewSeries(ch emotion.Channel, obs []Observation) Series {
	cp := make([]Observation, len(obs))
	copy(cp, obs)
	sort.SliceStable(cp, func(i, j int) bool { return cp[i].T < cp[j].T })
	return Series{Channel: ch, Observations: cp}
}

func (s Series) Len() int { return len(s.Observations) }

// Times returns the observation timestamps in order.
func (s Series) Times() []float64 {
	out := make([]float64, len(s.Observations))
	for i, o := range s.Observations {
		out[i] = o.T
	}
	return out
}

// Labels returns the canonical labels in order, absent entries included.
func (s Series) Labels() []emotion.Emotion {
	out := make([]emotion.Emotion, len(s.Observations))
	for i, o := range s.Observations {
		out[i] = o.Label
	}
	return out
}

// Nearest returns the index of the observation closest in time to t among
// those with a present label in labels (parallel to the series). Ties go to
// the first found in a full linear scan, so the cost is O(n) per lookup.
func Nearest(times []float64, labels []emotion.Emotion, t float64) (int, bool) {
	best, bestDt := -1, 0.0
	for i, ft := range times {
		if i >= len(labels) || !labels[i].Present() {
			continue
		}
		dt := ft - t
		if dt < 0 {
			dt = -dt
		}
		if best < 0 || dt < bestDt {
			best, bestDt = i, dt
		}
	}
	return best, best >= 0
}
