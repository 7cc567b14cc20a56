package orchestrator

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/maastricht-university/emocong/multimodal"
)

// Transcriber turns an audio file into timed utterances.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (*multimodal.Transcript, error)
}

// Transcribe writes <transcripts>/<video>_transcript.json from audioPath.
func (p *Pipeline) Transcribe(ctx context.Context, video, audioPath string, t Transcriber) (string, error) {
	tr, err := t.Transcribe(ctx, audioPath)
	if err != nil {
		return "", fmt.Errorf("transcribe %s: %w", audioPath, err)
	}
	out := filepath.Join(p.cfg.Paths.Transcripts, video+suffixTranscript)
	if _, err := writeJSON(out, tr); err != nil {
		return "", fmt.Errorf("write %s: %w", out, err)
	}
	p.log.WithFields(logrus.Fields{"video": video, "path": out, "segments": len(tr.Segments)}).Info("transcript written")
	return out, nil
}
