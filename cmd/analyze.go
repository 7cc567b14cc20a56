package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/maastricht-university/emocong/orchestrator"
	"github.com/maastricht-university/emocong/store"
)

func newAnalyzeCmd(st *state) *cobra.Command {
	var noStore bool
	cmd := &cobra.Command{
		Use:   "analyze [videos...]",
		Short: "Analyze videos, or every video with a multimodal file",
		RunE: func(cmd *cobra.Command, args []string) error {
			var db *store.Store
			if !noStore && st.cfg.Store.Path != "" {
				var err error
				if db, err = st.openStore(); err != nil {
					return err
				}
				defer db.Close()
			}
			p, _ := st.pipeline(db)

			sum, err := p.Run(cmd.Context(), args)
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), sum.Results, sum.OK, sum.Fail)
			return nil
		},
	}
	cmd.Flags().BoolVar(&noStore, "no-store", false, "write output files only")
	return cmd
}

func printSummary(w io.Writer, results []orchestrator.VideoResult, ok, fail int) {
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(w, "FAIL %s: %v\n", r.Video, r.Err)
			continue
		}
		if r.Output == "" {
			fmt.Fprintf(w, "OK   %s\n", r.Video)
			continue
		}
		fmt.Fprintf(w, "OK   %s -> %s\n", r.Video, r.Output)
	}
	fmt.Fprintf(w, "Summary: ok=%d fail=%d\n", ok, fail)
}
