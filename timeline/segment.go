package timeline

// Segment is a closed time interval carrying one label: a transcript
// utterance, a manual annotation range or a collapsed run of text labels.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Label string  `json:"label"`
}

// Contains reports whether start <= t <= end.
func (s Segment) Contains(t float64) bool { return s.Start <= t && t <= s.End }

// LabelAt returns the label of the first segment, in input order, that
// contains t. Overlaps are not merged; callers wanting a priority order must
// sort segs themselves.
func LabelAt(segs []Segment, t float64) (string, bool) {
	for _, s := range segs {
		if s.Contains(t) {
			return s.Label, true
		}
	}
	return "", false
}

// CollapseRuns folds a time-ordered series into maximal runs of consecutive
// observations sharing the same present label. Absent observations are
// skipped without breaking a run.
func CollapseRuns(s Series) []Segment {
	var out []Segment
	var cur *Segment
	for _, o := range s.Observations {
		if !o.Label.Present() {
			continue
		}
		lbl := string(o.Label)
		if cur != nil && cur.Label == lbl {
			cur.End = o.T
			continue
		}
		if cur != nil {
			out = append(out, *cur)
		}
		cur = &Segment{Start: o.T, End: o.T, Label: lbl}
	}
	if cur != nil {
		out = append(out, *cur)
	}
	return out
}
