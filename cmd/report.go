package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/maastricht-university/emocong/clients"
	"github.com/maastricht-university/emocong/config"
	"github.com/maastricht-university/emocong/orchestrator"
	"github.com/maastricht-university/emocong/store"
)

func newReportCmd(st *state) *cobra.Command {
	var (
		plot   bool
		outDir string
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize stored analyses, optionally plotting them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := st.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			ctx := cmd.Context()
			list, err := s.ListAnalyses(ctx)
			if err != nil {
				return err
			}
			writeTable(cmd.OutOrStdout(), list)
			if !plot || len(list) == 0 {
				return nil
			}

			h := clients.NewHTTP(config.DurSeconds(st.cfg.Services.Timeout))
			url := st.cfg.Services.Visualization.URL
			req := clients.RatesReq{OutputDir: outDir}
			for _, a := range list {
				req.Videos = append(req.Videos, a.Video)
				req.FaceText = append(req.FaceText, a.FaceTextRate)
				req.Manual = append(req.Manual, a.ManualRate)

				full, err := s.GetAnalysis(ctx, a.Video)
				if err != nil {
					return err
				}
				var body orchestrator.Analysis
				if err := json.Unmarshal(full.Body, &body); err != nil {
					return fmt.Errorf("decode stored analysis %s: %w", a.Video, err)
				}
				if body.Timeseries == nil {
					st.log.WithField("video", a.Video).Debug("no timeseries stored, skipping timeline plot")
					continue
				}
				r, err := h.GenerateTimeline(ctx, url, clients.TimelineReq{
					Video:      a.Video,
					Timestamps: body.Timeseries.T,
					Labels:     body.Timeseries.FaceSmoothed,
					Series:     "face_smoothed",
					OutputDir:  outDir,
				})
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), r.Path)
			}
			r, err := h.GenerateRates(ctx, url, req)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), r.Path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&plot, "plot", false, "render plots with the visualization service")
	cmd.Flags().StringVar(&outDir, "plot-dir", "", "where the visualization service writes plots")
	return cmd
}

func writeTable(w io.Writer, list []store.Analysis) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "VIDEO\tFACE_CHANGES\tTEXT_CHANGES\tFACE_TEXT\tMANUAL\tRUN")
	for _, a := range list {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\t%s\n", a.Video, a.NFaceChanges, a.NTextChanges, rate(a.FaceTextRate), rate(a.ManualRate), a.RunID)
	}
	tw.Flush()
}

func rate(r *float64) string {
	if r == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *r)
}
