package orchestrator

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/maastricht-university/emocong/emotion"
)

// File name suffixes of the per-video artifacts.
const (
	suffixMultimodal     = "_multimodal.json"
	suffixAnalysis       = "_analysis.json"
	suffixFaceTimeseries = "_face_timeseries.json"
	suffixTranscript     = "_transcript.json"
	suffixTextEmotions   = "_text_emotions.json"
)

func (p *Pipeline) heuristic() emotion.Heuristic {
	h := p.cfg.Heuristic
	return emotion.Heuristic{Enabled: h.Enabled, Fear: h.Fear, Angry: h.Angry, Disgust: h.Disgust}
}

func (p *Pipeline) multimodalPath(video string) string {
	return filepath.Join(p.cfg.Paths.Multimodal, video+suffixMultimodal)
}

func (p *Pipeline) analysisPath(video string) string {
	return filepath.Join(p.cfg.Paths.Outputs, video+suffixAnalysis)
}

// videosIn lists the video names of files in dir ending with suffix, sorted.
func videosIn(dir, suffix string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), suffix) {
			continue
		}
		if v := strings.TrimSuffix(e.Name(), suffix); v != "" {
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out, nil
}

func labelStrings(ls []emotion.Emotion) []string {
	out := make([]string, len(ls))
	for i, l := range ls {
		out[i] = string(l)
	}
	return out
}
