// Package cmd is the emocong command line.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/maastricht-university/emocong/config"
	"github.com/maastricht-university/emocong/metrics"
	"github.com/maastricht-university/emocong/orchestrator"
	"github.com/maastricht-university/emocong/store"
)

// state is shared by the subcommands once the root has loaded the config.
type state struct {
	cfgFile  string
	logLevel string

	cfg *config.Root
	log *logrus.Entry
}

func NewRootCmd() *cobra.Command {
	st := &state{}
	root := &cobra.Command{
		Use:           "emocong",
		Short:         "Measure agreement between facial, spoken and annotated emotion",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return st.init(cmd)
		},
	}
	root.PersistentFlags().StringVar(&st.cfgFile, "config", "", "config file (default config/$CONFIG_ENV/config.yaml, then config.yaml)")
	root.PersistentFlags().StringVar(&st.logLevel, "log-level", "", "log level, overrides pipeline.log_level")

	root.AddCommand(
		newAnalyzeCmd(st),
		newMergeCmd(st),
		newValidateCmd(st),
		newTranscribeCmd(st),
		newClassifyCmd(st),
		newLabelsCmd(st),
		newReportCmd(st),
		newServeCmd(st),
	)
	return root
}

// Execute runs the command line and exits non-zero on error.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "error:", err)
		os.Exit(1)
	}
}

func (s *state) init(cmd *cobra.Command) error {
	c, err := config.Load(s.cfgFile)
	if err != nil {
		return err
	}
	s.cfg = c

	l := logrus.New()
	l.SetOutput(cmd.ErrOrStderr())
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	lvl := c.Pipeline.LogLvl
	if s.logLevel != "" {
		lvl = s.logLevel
	}
	parsed, err := logrus.ParseLevel(lvl)
	if err != nil {
		return fmt.Errorf("%w: log level %q", config.ErrInvalidConfig, lvl)
	}
	l.SetLevel(parsed)
	s.log = l.WithField("pipeline", c.Pipeline.Name)
	return nil
}

// pipeline builds the orchestrator with a fresh metrics manager, saving to
// db when it is not nil.
func (s *state) pipeline(db *store.Store) (*orchestrator.Pipeline, *metrics.Manager) {
	m := newMetrics(s.cfg)
	opts := []orchestrator.Option{orchestrator.WithLogger(s.log), orchestrator.WithMetrics(m)}
	if db != nil {
		opts = append(opts, orchestrator.WithStore(db))
	}
	return orchestrator.NewPipeline(s.cfg, opts...), m
}

// newMetrics namespaces every metric with the pipeline name and labels it
// with the pipeline version.
func newMetrics(c *config.Root) *metrics.Manager {
	return metrics.NewManager(
		metrics.WithNamespace(c.Pipeline.Name),
		metrics.WithConstLabels(map[string]string{"version": c.Pipeline.Version}),
		metrics.WithHistogramBuckets(c.Metrics.DurationBuckets),
	)
}

func (s *state) openStore() (*store.Store, error) {
	if err := os.MkdirAll(filepath.Dir(s.cfg.Store.Path), 0o755); err != nil {
		return nil, err
	}
	return store.Open(s.cfg.Store.Path)
}
