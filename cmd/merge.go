package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maastricht-university/emocong/orchestrator"
)

func newMergeCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "merge [videos...]",
		Short: "Join face, transcript and text emotion files into multimodal records",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, _ := st.pipeline(nil)

			res, err := p.MergeAll(cmd.Context(), args)
			if err != nil {
				return err
			}
			var ok, fail int
			out := make([]orchestrator.VideoResult, 0, len(res))
			for _, r := range res {
				if r.Err != nil {
					fail++
				} else {
					ok++
				}
				out = append(out, r.VideoResult)
			}
			printSummary(cmd.OutOrStdout(), out, ok, fail)
			return nil
		},
	}
}

func newValidateCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the shape of every multimodal file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, _ := st.pipeline(nil)

			res, err := p.Validate()
			if err != nil {
				return err
			}
			var bad int
			for _, r := range res {
				if r.Err != nil {
					bad++
					fmt.Fprintf(cmd.OutOrStdout(), "INVALID %s: %v\n", r.Video, r.Err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "OK      %s\n", r.Video)
			}
			if bad > 0 {
				return fmt.Errorf("%d of %d multimodal files invalid", bad, len(res))
			}
			return nil
		},
	}
}
