// Package orchestrator runs the per-video analysis over a batch of videos:
// load inputs, detect changes, measure congruence, generate insights and
// persist the report. One video's failure never stops the others.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	cfg "github.com/maastricht-university/emocong/config"
	"github.com/maastricht-university/emocong/congruence"
	"github.com/maastricht-university/emocong/emotion"
	"github.com/maastricht-university/emocong/insight"
	"github.com/maastricht-university/emocong/labels"
	"github.com/maastricht-university/emocong/metrics"
	"github.com/maastricht-university/emocong/multimodal"
	"github.com/maastricht-university/emocong/store"
	"github.com/maastricht-university/emocong/timeline"
)

// ErrMissingInput marks a video whose input files cannot be found.
var ErrMissingInput = errors.New("missing input")

type Pipeline struct {
	cfg     *cfg.Root
	log     *logrus.Entry
	metrics *metrics.Manager
	store   *store.Store
}

type Option func(*Pipeline)

func WithLogger(l *logrus.Entry) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.log = l
		}
	}
}

// WithMetrics records batch metrics on m.
func WithMetrics(m *metrics.Manager) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// WithStore saves every analysis and run to s in addition to the output
// files.
func WithStore(s *store.Store) Option {
	return func(p *Pipeline) { p.store = s }
}

func NewPipeline(c *cfg.Root, opts ...Option) *Pipeline {
	p := &Pipeline{cfg: c, log: logrus.NewEntry(logrus.StandardLogger())}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Discover lists the videos that have a multimodal file.
func (p *Pipeline) Discover() ([]string, error) {
	videos, err := videosIn(p.cfg.Paths.Multimodal, suffixMultimodal)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingInput, err)
	}
	if len(videos) == 0 {
		return nil, fmt.Errorf("%w: no *%s in %s", ErrMissingInput, suffixMultimodal, p.cfg.Paths.Multimodal)
	}
	return videos, nil
}

// Analyze computes the report of one already loaded video. It is pure: the
// same record, labels and configuration always give the same Analysis.
func (p *Pipeline) Analyze(rec *multimodal.Record, set *labels.Set) *Analysis {
	h := p.heuristic()

	face, _ := rec.FaceSeries(h)
	text := rec.TextSeries()
	raw := face.Labels()
	smoothed := timeline.Smooth(raw, p.cfg.Smoothing.Window)

	faceLabels := raw
	if p.cfg.Changes.SmoothedFace {
		faceLabels = smoothed
	}
	fc := timeline.DetectChanges(emotion.Face, face.Times(), faceLabels)
	tc := timeline.DetectChanges(emotion.Text, text.Times(), text.Labels())

	ft := congruence.FaceVsText(rec, h)
	man := congruence.FaceVsManual(rec, set, congruence.ManualOptions{
		Heuristic: h,
		Window:    p.cfg.Smoothing.Window,
		Raw:       p.cfg.Smoothing.RawManual,
	})

	a := &Analysis{
		Video: rec.Video,
		Changes: Changes{
			NFaceChanges: len(fc),
			NTextChanges: len(tc),
			FaceChanges:  fc,
			TextChanges:  tc,
		},
		Metrics: Metrics{FaceVsText: ft, VsManual: man},
	}
	a.Insights = insight.Generate(rec.Video, insight.Counts{Face: len(fc), Text: len(tc)}, ft.MatchRate, man.MatchRate)
	if p.cfg.Output.IncludeTimeseries {
		a.Timeseries = &Timeseries{
			T:            face.Times(),
			FaceRaw:      labelStrings(raw),
			FaceSmoothed: labelStrings(smoothed),
		}
	}
	return a
}

// AnalyzeOne loads a video's multimodal record and labels, analyzes it and
// writes the report. It returns the report and the path written.
func (p *Pipeline) AnalyzeOne(ctx context.Context, video string) (*Analysis, string, error) {
	return p.analyzeOne(ctx, video, "")
}

func (p *Pipeline) analyzeOne(ctx context.Context, video, runID string) (*Analysis, string, error) {
	start := time.Now()
	log := p.log.WithField("video", video)

	mmPath := p.multimodalPath(video)
	rec, err := multimodal.Load(mmPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, "", fmt.Errorf("%w: %s", ErrMissingInput, mmPath)
	}
	if err != nil {
		return nil, "", err
	}
	if rec.Video == "" {
		rec.Video = video
	}

	lblPath, err := labels.Resolve(p.cfg.Paths.Labels, video)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrMissingInput, err)
	}
	set, err := labels.Load(lblPath)
	if err != nil {
		return nil, "", err
	}
	log.WithField("path", lblPath).Debug("labels resolved")

	a := p.Analyze(rec, set)

	out := p.analysisPath(video)
	body, err := writeJSON(out, a)
	if err != nil {
		return nil, "", fmt.Errorf("write %s: %w", out, err)
	}

	if p.store != nil {
		err := p.store.SaveAnalysis(ctx, store.Analysis{
			Video:        video,
			RunID:        runID,
			NFaceChanges: a.Changes.NFaceChanges,
			NTextChanges: a.Changes.NTextChanges,
			FaceTextRate: a.Metrics.FaceVsText.MatchRate,
			ManualRate:   a.Metrics.VsManual.MatchRate,
			Body:         body,
		})
		if err != nil {
			// the report file is already on disk
			log.WithError(err).Warn("analysis not stored")
		}
	}

	p.record(a, time.Since(start))
	log.WithFields(logrus.Fields{
		"n_face_changes": a.Changes.NFaceChanges,
		"n_text_changes": a.Changes.NTextChanges,
		"path":           out,
	}).Debug("analysis written")
	return a, out, nil
}

func (p *Pipeline) record(a *Analysis, d time.Duration) {
	m := p.metrics
	if m == nil {
		return
	}
	ft, man := a.Metrics.FaceVsText, a.Metrics.VsManual
	m.RecordComparisons("face_vs_text", metrics.OutcomeMatch, ft.Match)
	m.RecordComparisons("face_vs_text", metrics.OutcomeMismatch, ft.Mismatch)
	m.RecordComparisons("face_vs_text", "skipped_no_face", ft.SkippedNoFace)
	m.RecordComparisons("face_vs_text", "skipped_no_text", ft.SkippedNoText)
	m.RecordComparisons("face_vs_text", "skipped_unmappable_face", ft.SkippedUnmappableFace)
	m.RecordComparisons("face_vs_text", "skipped_unmappable_text", ft.SkippedUnmappableText)
	m.RecordComparisons("vs_manual_labels", metrics.OutcomeMatch, man.Match)
	m.RecordComparisons("vs_manual_labels", metrics.OutcomeMismatch, man.Mismatch)
	m.RecordComparisons("vs_manual_labels", "unknown_frames", man.UnknownFrames)
	m.RecordComparisons("vs_manual_labels", "skipped_no_pred", man.SkippedNoPred)
	m.RecordAdjustments(man.NAdjusted)
	m.ObserveDuration(d)
}

// Run analyzes videos one at a time, or every discovered video when none
// are given. Errors, panics included, are recorded per video.
func (p *Pipeline) Run(ctx context.Context, videos []string) (Summary, error) {
	if len(videos) == 0 {
		var err error
		if videos, err = p.Discover(); err != nil {
			return Summary{}, err
		}
	}

	sum := Summary{RunID: uuid.New().String(), Results: make([]VideoResult, 0, len(videos))}
	log := p.log.WithField("run_id", sum.RunID)
	started := time.Now()

	for _, v := range videos {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		res := VideoResult{Video: v}
		_, out, err := p.safeAnalyze(ctx, v, sum.RunID)
		if err != nil {
			res.Err, res.Error = err, err.Error()
			sum.Fail++
			log.WithField("video", v).WithError(err).Warn("FAIL")
		} else {
			res.Output = out
			sum.OK++
			log.WithFields(logrus.Fields{"video": v, "path": out}).Info("OK")
		}
		p.metrics.RecordVideo(err == nil)
		sum.Results = append(sum.Results, res)
	}

	log.WithFields(logrus.Fields{"ok": sum.OK, "fail": sum.Fail}).Info("analysis summary")

	if p.store != nil {
		err := p.store.SaveRun(ctx, store.Run{ID: sum.RunID, OK: sum.OK, Fail: sum.Fail, StartedAt: started})
		if err != nil {
			log.WithError(err).Warn("run not stored")
		}
	}
	if path := p.cfg.Metrics.Textfile; path != "" && p.metrics != nil {
		if err := p.metrics.WriteTextfile(path); err != nil {
			log.WithError(err).Warn("metrics not written")
		}
	}
	return sum, nil
}

func (p *Pipeline) safeAnalyze(ctx context.Context, video, runID string) (a *Analysis, out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic analyzing %s: %v", video, r)
		}
	}()
	return p.analyzeOne(ctx, video, runID)
}
