package labels

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

var extensions = []string{".json", ".yaml", ".yml"}

// Candidates lists the file names tried for a video, in priority order.
// Annotators named files with inconsistent case, e.g. Prueba1_labels.json
// next to prueba1_multimodal.json.
func Candidates(dir, video string) []string {
	names := []string{video, capitalize(video), strings.ToUpper(video)}
	var out []string
	seen := map[string]bool{}
	for _, ext := range extensions {
		for _, n := range names {
			p := filepath.Join(dir, n+"_labels"+ext)
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
	}
	return out
}

// Resolve returns the first existing label file for video.
func Resolve(dir, video string) (string, error) {
	for _, p := range Candidates(dir, video) {
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			return p, nil
		}
	}
	return "", fmt.Errorf("no labels for %s in %s: %w", video, dir, os.ErrNotExist)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(strings.ToLower(s))
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// TemplateSegment is one editable range in a label template.
type TemplateSegment struct {
	Start   float64 `json:"start" yaml:"start"`
	End     float64 `json:"end" yaml:"end"`
	Emotion string  `json:"emotion" yaml:"emotion"`
	Note    string  `json:"note,omitempty" yaml:"note,omitempty"`
}

// Template is the starting point handed to annotators.
type Template struct {
	Video    string            `json:"video" yaml:"video"`
	FPSNote  string            `json:"fps_note" yaml:"fps_note"`
	Segments []TemplateSegment `json:"segments" yaml:"segments"`
}

// NewTemplate returns a one-segment template for videoPath.
func NewTemplate(videoPath string) Template {
	return Template{
		Video:   videoPath,
		FPSNote: "timestamps in seconds",
		Segments: []TemplateSegment{
			{Start: 0, End: 0, Emotion: "neutral", Note: "replace with real ranges"},
		},
	}
}

// DefaultTemplatePath is <dir>/<video stem>_labels.json.
func DefaultTemplatePath(dir, videoPath string) string {
	stem := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))
	return filepath.Join(dir, stem+"_labels.json")
}
