package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/maastricht-university/emocong/multimodal"
)

// Merge joins a video's face timeseries, transcript and (optional) text
// emotions into its multimodal record.
func (p *Pipeline) Merge(_ context.Context, video string) (string, multimodal.MergeStats, error) {
	var st multimodal.MergeStats
	facePath := filepath.Join(p.cfg.Paths.FaceEmotions, video+suffixFaceTimeseries)
	face, err := multimodal.LoadFaceTimeseries(facePath)
	if err != nil {
		return "", st, missing(err)
	}
	trPath := filepath.Join(p.cfg.Paths.Transcripts, video+suffixTranscript)
	tr, err := multimodal.LoadTranscript(trPath)
	if err != nil {
		return "", st, missing(err)
	}
	var te *multimodal.TextEmotions
	tePath := filepath.Join(p.cfg.Paths.TextEmotions, video+suffixTextEmotions)
	te, err = multimodal.LoadTextEmotions(tePath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		te = nil
		p.log.WithFields(logrus.Fields{"video": video, "path": tePath}).Debug("no text emotions, merging transcript only")
	case err != nil:
		return "", st, err
	}

	rec, st := multimodal.Merge(video, face, tr, te)
	out := p.multimodalPath(video)
	if _, err := writeJSON(out, rec); err != nil {
		return "", st, fmt.Errorf("write %s: %w", out, err)
	}
	return out, st, nil
}

// MergeAll merges videos, or every video with a face timeseries when none
// are given.
func (p *Pipeline) MergeAll(ctx context.Context, videos []string) ([]MergeResult, error) {
	if len(videos) == 0 {
		var err error
		videos, err = videosIn(p.cfg.Paths.FaceEmotions, suffixFaceTimeseries)
		if err != nil {
			return nil, missing(err)
		}
	}
	out := make([]MergeResult, 0, len(videos))
	for _, v := range videos {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		log := p.log.WithField("video", v)
		path, st, err := p.Merge(ctx, v)
		r := MergeResult{VideoResult: VideoResult{Video: v, Output: path, Err: err}, Stats: st}
		if err != nil {
			r.Error = err.Error()
			log.WithError(err).Warn("merge FAIL")
		} else {
			log.WithFields(logrus.Fields{
				"path":            path,
				"n_synced":        st.Synced,
				"dropped_no_t":    st.DroppedNoT,
				"dropped_no_face": st.DroppedNoFace,
				"dropped_error":   st.DroppedError,
			}).Info("merge OK")
		}
		out = append(out, r)
	}
	return out, nil
}

// Validate checks the shape of every multimodal file in the configured
// directory.
func (p *Pipeline) Validate() ([]VideoResult, error) {
	videos, err := p.Discover()
	if err != nil {
		return nil, err
	}
	out := make([]VideoResult, 0, len(videos))
	for _, v := range videos {
		path := p.multimodalPath(v)
		r := VideoResult{Video: v, Output: path}
		if err := multimodal.ValidateFile(path); err != nil {
			r.Err, r.Error = err, err.Error()
			p.log.WithFields(logrus.Fields{"video": v, "path": path}).WithError(err).Warn("invalid")
		}
		out = append(out, r)
	}
	return out, nil
}

func missing(err error) error {
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %v", ErrMissingInput, err)
	}
	return err
}
