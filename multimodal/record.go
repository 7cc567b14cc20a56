// Package multimodal defines the per-video record that joins face and text
// emotion predictions on one timeline, and the merge step that builds it
// from the classifier outputs.
package multimodal

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/maastricht-university/emocong/emotion"
	"github.com/maastricht-university/emocong/timeline"
)

// Record is the multimodal file of one video.
type Record struct {
	Video  string `json:"video"`
	NItems int    `json:"n_items"`
	Items  []Item `json:"items"`
}

// Item is one timestamped sample. T is kept loosely typed and goes through
// timeline.Normalize before use.
type Item struct {
	T     any         `json:"t"`
	Frame any         `json:"frame,omitempty"`
	Face  FacePayload `json:"face"`
	Text  TextPayload `json:"text"`
}

type FacePayload struct {
	Dominant string `json:"dominant"`
	Scores   Scores `json:"scores,omitempty"`
}

// UnmarshalJSON never fails: a non-string dominant, or a face that is not an
// object, decodes as no prediction.
func (p *FacePayload) UnmarshalJSON(b []byte) error {
	*p = FacePayload{}
	var o struct {
		Dominant any    `json:"dominant"`
		Scores   Scores `json:"scores"`
	}
	if err := json.Unmarshal(b, &o); err != nil {
		return nil
	}
	if s, ok := o.Dominant.(string); ok {
		p.Dominant = s
	}
	p.Scores = o.Scores
	return nil
}

// Scores is a class->score distribution. Non-numeric entries are dropped on
// decode.
type Scores map[string]float64

func (s *Scores) UnmarshalJSON(b []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		// a malformed distribution is treated as missing
		*s = nil
		return nil
	}
	if raw == nil {
		*s = nil
		return nil
	}
	out := make(Scores, len(raw))
	for k, v := range raw {
		if f, ok := timeline.Float(v); ok {
			out[emotion.Key(k)] = f
		}
	}
	*s = out
	return nil
}

// TextKind tags the shape the text field arrived in.
type TextKind int

const (
	TextNone TextKind = iota
	// TextPlain is a bare transcript string.
	TextPlain
	// TextSegmented is the object form carrying the utterance bounds and the
	// text classifier output.
	TextSegmented
)

// TextPayload is resolved once at ingestion: whatever shape the field had,
// Content holds the single canonical transcript string.
type TextPayload struct {
	Kind         TextKind
	Content      string
	SegmentStart *float64
	SegmentEnd   *float64
	Dominant     string
	Scores       Scores
}

type textObject struct {
	SegmentStart any     `json:"segment_start"`
	SegmentEnd   any     `json:"segment_end"`
	Content      *string `json:"content"`
	Raw          *string `json:"raw,omitempty"`
	Text         *string `json:"text,omitempty"`
	Dominant     *string `json:"dominant"`
	Scores       Scores  `json:"scores"`
}

func (p *TextPayload) UnmarshalJSON(b []byte) error {
	*p = TextPayload{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		p.Kind = TextPlain
		p.Content = strings.TrimSpace(s)
	case '{':
		var o textObject
		if err := json.Unmarshal(b, &o); err != nil {
			return nil
		}
		p.Kind = TextSegmented
		p.Content = firstNonEmpty(o.Content, o.Raw, o.Text)
		p.SegmentStart = optFloat(o.SegmentStart)
		p.SegmentEnd = optFloat(o.SegmentEnd)
		if o.Dominant != nil {
			p.Dominant = strings.TrimSpace(*o.Dominant)
		}
		p.Scores = o.Scores
	}
	return nil
}

func (p TextPayload) MarshalJSON() ([]byte, error) {
	if p.Kind == TextPlain {
		return json.Marshal(p.Content)
	}
	o := struct {
		SegmentStart *float64 `json:"segment_start"`
		SegmentEnd   *float64 `json:"segment_end"`
		Content      *string  `json:"content"`
		Dominant     *string  `json:"dominant"`
		Scores       Scores   `json:"scores"`
	}{SegmentStart: p.SegmentStart, SegmentEnd: p.SegmentEnd, Scores: p.Scores}
	if p.Content != "" {
		o.Content = &p.Content
	}
	if p.Dominant != "" {
		o.Dominant = &p.Dominant
	}
	return json.Marshal(o)
}

func firstNonEmpty(vals ...*string) string {
	for _, v := range vals {
		if v == nil {
			continue
		}
		if s := strings.TrimSpace(*v); s != "" {
			return s
		}
	}
	return ""
}

func optFloat(v any) *float64 {
	f, ok := timeline.Normalize(v)
	if !ok {
		return nil
	}
	return &f
}
