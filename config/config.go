package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

// EnvPrefix prefixes environment overrides: EMOCONG_PATHS_OUTPUTS overrides
// paths.outputs.
const EnvPrefix = "EMOCONG"

type Service struct {
	URL string `mapstructure:"url"`
}
type Services struct {
	FaceEmotion   Service `mapstructure:"face_emotion"`
	TextEmotion   Service `mapstructure:"text_emotion"`
	ASR           Service `mapstructure:"asr"`
	Visualization Service `mapstructure:"visualization"`
	// Timeout is per request, in seconds.
	Timeout int `mapstructure:"timeout"`
}
type Paths struct {
	Multimodal   string `mapstructure:"multimodal"`
	Labels       string `mapstructure:"labels"`
	Outputs      string `mapstructure:"outputs"`
	FaceEmotions string `mapstructure:"face_emotions"`
	Transcripts  string `mapstructure:"transcripts"`
	TextEmotions string `mapstructure:"text_emotions"`
	Frames       string `mapstructure:"frames"`
}
type Heuristic struct {
	Enabled bool    `mapstructure:"enabled"`
	Fear    float64 `mapstructure:"fear"`
	Angry   float64 `mapstructure:"angry"`
	Disgust float64 `mapstructure:"disgust"`
}
type Root struct {
	Pipeline struct {
		Name    string `mapstructure:"name"`
		Version string `mapstructure:"version"`
		LogLvl  string `mapstructure:"log_level"`
	} `mapstructure:"pipeline"`
	Paths     Paths     `mapstructure:"paths"`
	Heuristic Heuristic `mapstructure:"heuristic"`
	Smoothing struct {
		Window    int  `mapstructure:"window"`
		// RawManual compares manual labels against the unsmoothed face
		// series. Diagnostic only.
		RawManual bool `mapstructure:"raw_manual"`
	} `mapstructure:"smoothing"`
	Changes struct {
		SmoothedFace bool `mapstructure:"smoothed_face"`
	} `mapstructure:"changes"`
	Output struct {
		IncludeTimeseries bool `mapstructure:"include_timeseries"`
	} `mapstructure:"output"`
	Services   Services `mapstructure:"services"`
	Classifier struct {
		// Text selects the text classifier backend: http or openai.
		Text string `mapstructure:"text"`
	} `mapstructure:"classifier"`
	OpenAI struct {
		Model string `mapstructure:"model"`
	} `mapstructure:"openai"`
	Store struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"store"`
	Server struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"server"`
	Metrics struct {
		Textfile        string    `mapstructure:"textfile"`
		// DurationBuckets overrides the per-video duration histogram buckets,
		// in seconds.
		DurationBuckets []float64 `mapstructure:"duration_buckets"`
	} `mapstructure:"metrics"`
}

var defaults = map[string]any{
	"pipeline.name":              "emocong",
	"pipeline.version":           "0.1.0",
	"pipeline.log_level":         "info",
	"paths.multimodal":           "data/processed/multimodal",
	"paths.labels":               "data/labels",
	"paths.outputs":              "data/outputs",
	"paths.face_emotions":        "data/processed/face_emotions",
	"paths.transcripts":          "data/processed/transcripts",
	"paths.text_emotions":        "data/processed/text_emotions",
	"paths.frames":               "data/processed/frames",
	"heuristic.enabled":          true,
	"heuristic.fear":             50.0,
	"heuristic.angry":            5.0,
	"heuristic.disgust":          0.3,
	"smoothing.window":           5,
	"smoothing.raw_manual":       false,
	"changes.smoothed_face":      false,
	"output.include_timeseries":  false,
	"services.face_emotion.url":  "http://localhost:8003",
	"services.text_emotion.url":  "http://localhost:8003",
	"services.asr.url":           "http://localhost:8001",
	"services.visualization.url": "http://localhost:8005",
	"services.timeout":           60,
	"classifier.text":            "http",
	"openai.model":               "gpt-4o-mini",
	"store.path":                 "data/outputs/emocong.db",
	"server.addr":                ":8080",
	"metrics.textfile":           "",
}

// Candidates lists the files tried when no explicit path is given.
func Candidates() []string {
	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	return []string{
		filepath.Join("config", env, "config.yaml"),
		"config.yaml",
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load layers defaults, the YAML file and EMOCONG_* environment variables.
// An explicit path must exist; without one the first existing candidate is
// used, and no file at all means defaults plus environment.
func Load(path string) (*Root, error) {
	v := newViper()
	if path == "" {
		for _, p := range Candidates() {
			if st, err := os.Stat(p); err == nil && !st.IsDir() {
				path = p
				break
			}
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	return decode(v)
}

// Default returns the configuration built from defaults and environment
// only.
func Default() (*Root, error) {
	return decode(newViper())
}

func decode(v *viper.Viper) (*Root, error) {
	var cfg Root
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// pipeline.name doubles as the metrics namespace.
var metricName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

func (c *Root) Validate() error {
	switch {
	case !metricName.MatchString(c.Pipeline.Name):
		return fmt.Errorf("%w: pipeline.name %q is not a valid metric namespace", ErrInvalidConfig, c.Pipeline.Name)
	case c.Paths.Multimodal == "":
		return fmt.Errorf("%w: paths.multimodal is empty", ErrInvalidConfig)
	case c.Paths.Outputs == "":
		return fmt.Errorf("%w: paths.outputs is empty", ErrInvalidConfig)
	case c.Smoothing.Window < 1:
		return fmt.Errorf("%w: smoothing.window must be >= 1, got %d", ErrInvalidConfig, c.Smoothing.Window)
	case c.Heuristic.Fear < 0 || c.Heuristic.Angry < 0 || c.Heuristic.Disgust < 0:
		return fmt.Errorf("%w: heuristic thresholds must be non-negative", ErrInvalidConfig)
	case c.Services.Timeout < 0:
		return fmt.Errorf("%w: services.timeout must be >= 0", ErrInvalidConfig)
	}
	switch c.Classifier.Text {
	case "http", "openai":
	default:
		return fmt.Errorf("%w: classifier.text must be http or openai, got %q", ErrInvalidConfig, c.Classifier.Text)
	}
	return nil
}

func DurSeconds(n int) time.Duration { return time.Duration(n) * time.Second }
