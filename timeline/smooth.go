package timeline

import "github.com/maastricht-university/emocong/emotion"

// DefaultWindow is the smoothing window used against manual annotations.
const DefaultWindow = 5

// Smooth applies centered majority-vote smoothing with window k. For index i
// the window is [i-k/2, i+k/2] clipped to bounds; absent entries are dropped
// and ties go to the label seen first in window order. An empty window
// yields absent. k <= 1 returns an unchanged copy.
func Smooth(values []emotion.Emotion, k int) []emotion.Emotion {
	out := make([]emotion.Emotion, len(values))
	if k <= 1 {
		copy(out, values)
		return out
	}
	half := k / 2
	n := len(values)
	counts := make(map[emotion.Emotion]int, len(emotion.All))
	for i := range values {
		lo, hi := i-half, i+half
		if lo < 0 {
			lo = 0
		}
		if hi > n-1 {
			hi = n - 1
		}
		clear(counts)
		best := 0
		for j := lo; j <= hi; j++ {
			if v := values[j]; v.Present() {
				counts[v]++
				if counts[v] > best {
					best = counts[v]
				}
			}
		}
		for j := lo; j <= hi; j++ {
			if v := values[j]; v.Present() && counts[v] == best {
				out[i] = v
				break
			}
		}
	}
	return out
}
