// Package labels loads manual ground-truth annotations. Annotators produced
// several on-disk shapes over time; all of them are normalized into either a
// flat list of frame/time records or a list of segments.
package labels

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/maastricht-university/emocong/timeline"
	"gopkg.in/yaml.v3"
)

// ErrUnrecognizedFormat is returned when a label file matches none of the
// supported shapes.
var ErrUnrecognizedFormat = errors.New("unrecognized label format")

// Record is one manual label positioned either by time or by frame index.
type Record struct {
	Frame    int
	HasFrame bool
	T        float64
	HasTime  bool
	// Raw is the annotator's label as written; empty when none was found.
	Raw string
}

// Set is a normalized label file. Exactly one of Records and Segments is
// populated.
type Set struct {
	Path     string
	Records  []Record
	Segments []timeline.Segment
}

// Segmented reports whether the set came from the segment shape.
func (s *Set) Segmented() bool { return s.Segments != nil }

// Expand turns segment labels into time records at the given timestamps
// (the video's own item times). Times outside every segment are skipped.
// Flat sets are returned unchanged.
func (s *Set) Expand(times []float64) []Record {
	if !s.Segmented() {
		return s.Records
	}
	out := make([]Record, 0, len(times))
	for _, t := range times {
		if lbl, ok := timeline.LabelAt(s.Segments, t); ok {
			out = append(out, Record{T: t, HasTime: true, Raw: lbl})
		}
	}
	return out
}

var listKeys = []string{"items", "labels", "frames", "annotations", "data", "results"}

var (
	labelKeys = []string{"label", "emotion", "value", "dominant"}
	timeKeys  = []string{"t", "time", "timestamp", "seconds"}
	frameKeys = []string{"frame", "frame_idx", "idx"}
)

// Load reads a JSON or YAML label file (by extension; anything else is read
// as JSON) and normalizes it.
func Load(path string) (*Set, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &doc)
		doc = stringKeys(doc)
	default:
		err = json.Unmarshal(b, &doc)
	}
	if err != nil {
		return nil, fmt.Errorf("decode labels %s: %w", path, err)
	}
	set, err := Parse(doc)
	if err != nil {
		return nil, fmt.Errorf("%w in %s", err, path)
	}
	set.Path = path
	return set, nil
}

// Parse normalizes an already decoded document.
func Parse(doc any) (*Set, error) {
	switch d := doc.(type) {
	case []any:
		return &Set{Records: fromList(d)}, nil
	case map[string]any:
		if segs, ok := d["segments"].([]any); ok {
			if out := fromSegments(segs); len(out) > 0 {
				return &Set{Segments: out}, nil
			}
		}
		for _, k := range listKeys {
			if v, ok := d[k].([]any); ok {
				return &Set{Records: fromList(v)}, nil
			}
		}
		if recs := fromFrameMap(d); len(recs) > 0 {
			return &Set{Records: recs}, nil
		}
	}
	return nil, ErrUnrecognizedFormat
}

func fromList(v []any) []Record {
	out := make([]Record, 0, len(v))
	if len(v) > 0 {
		if _, ok := v[0].(string); ok {
			for i, x := range v {
				s, _ := x.(string)
				out = append(out, Record{Frame: i, HasFrame: true, Raw: strings.TrimSpace(s)})
			}
			return out
		}
	}
	for _, x := range v {
		m, ok := x.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, fromObject(m))
	}
	return out
}

func fromObject(m map[string]any) Record {
	var r Record
	for _, k := range labelKeys {
		if s := str(m[k]); s != "" {
			r.Raw = s
			break
		}
	}
	for _, k := range timeKeys {
		if t, ok := timeline.Normalize(m[k]); ok {
			r.T, r.HasTime = t, true
			break
		}
	}
	for _, k := range frameKeys {
		if f, ok := timeline.Float(m[k]); ok && f == float64(int(f)) {
			r.Frame, r.HasFrame = int(f), true
			break
		}
	}
	return r
}

func fromSegments(v []any) []timeline.Segment {
	var out []timeline.Segment
	for _, x := range v {
		m, ok := x.(map[string]any)
		if !ok {
			continue
		}
		start, ok1 := timeline.Normalize(m["start"])
		end, ok2 := timeline.Normalize(m["end"])
		lbl := str(m["emotion"])
		if lbl == "" {
			lbl = str(m["label"])
		}
		if !ok1 || !ok2 || lbl == "" {
			continue
		}
		out = append(out, timeline.Segment{Start: start, End: end, Label: lbl})
	}
	return out
}

// fromFrameMap handles {"frame_0001": "feliz", ...}: used when at least half
// of the values are strings; the frame index is the digits of the key.
func fromFrameMap(d map[string]any) []Record {
	if len(d) == 0 {
		return nil
	}
	strs := 0
	for _, v := range d {
		if _, ok := v.(string); ok {
			strs++
		}
	}
	need := len(d) / 2
	if need < 1 {
		need = 1
	}
	if strs < need {
		return nil
	}
	var out []Record
	for k, v := range d {
		s, ok := v.(string)
		if !ok {
			continue
		}
		digits := strings.Map(func(r rune) rune {
			if '0' <= r && r <= '9' {
				return r
			}
			return -1
		}, k)
		if digits == "" {
			continue
		}
		n, err := strconv.Atoi(digits)
		if err != nil {
			continue
		}
		out = append(out, Record{Frame: n, HasFrame: true, Raw: strings.TrimSpace(s)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Frame != out[j].Frame {
			return out[i].Frame < out[j].Frame
		}
		return out[i].Raw < out[j].Raw
	})
	return out
}

// stringKeys rewrites YAML mappings with non-string keys (frame numbers)
// into the map[string]any shape JSON produces.
func stringKeys(v any) any {
	switch x := v.(type) {
	case map[any]any:
		m := make(map[string]any, len(x))
		for k, val := range x {
			m[fmt.Sprint(k)] = stringKeys(val)
		}
		return m
	case map[string]any:
		for k, val := range x {
			x[k] = stringKeys(val)
		}
		return x
	case []any:
		for i, val := range x {
			x[i] = stringKeys(val)
		}
		return x
	}
	return v
}

func str(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	default:
		return strings.TrimSpace(fmt.Sprint(x))
	}
}
