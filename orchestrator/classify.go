package orchestrator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/maastricht-university/emocong/annotate"
	"github.com/maastricht-university/emocong/multimodal"
)

// Classifiers are the model handles used by Classify. Either may be nil to
// skip that stage.
type Classifiers struct {
	Face annotate.FaceClassifier
	Text annotate.TextClassifier
}

// Classify runs the face classifier over <frames>/<video>/ and the text
// classifier over the video's transcript, writing the face timeseries and
// text emotion files Merge consumes.
func (p *Pipeline) Classify(ctx context.Context, video string, c Classifiers) error {
	log := p.log.WithField("video", video)

	if c.Face != nil {
		ts, st, err := annotate.Frames(ctx, c.Face, filepath.Join(p.cfg.Paths.Frames, video))
		if err != nil {
			return missing(err)
		}
		out := filepath.Join(p.cfg.Paths.FaceEmotions, video+suffixFaceTimeseries)
		if _, err := writeJSON(out, ts); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
		log.WithFields(logrus.Fields{"path": out, "ok": st.OK, "skipped": st.Skipped}).Info("faces classified")
	}

	if c.Text != nil {
		tr, err := multimodal.LoadTranscript(filepath.Join(p.cfg.Paths.Transcripts, video+suffixTranscript))
		if err != nil {
			return missing(err)
		}
		te, st, err := annotate.Transcript(ctx, c.Text, tr)
		if err != nil {
			return err
		}
		out := filepath.Join(p.cfg.Paths.TextEmotions, video+suffixTextEmotions)
		if _, err := writeJSON(out, te); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
		log.WithFields(logrus.Fields{"path": out, "ok": st.OK, "skipped": st.Skipped}).Info("text classified")
	}
	return nil
}

// FrameVideos lists the per-video frame directories.
func (p *Pipeline) FrameVideos() ([]string, error) {
	entries, err := os.ReadDir(p.cfg.Paths.Frames)
	if err != nil {
		return nil, missing(err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			out = append(out, e.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}
