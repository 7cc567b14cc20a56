package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/maastricht-university/emocong/labels"
)

func newLabelsCmd(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "labels",
		Short: "Manual label files",
	}
	cmd.AddCommand(newLabelsInitCmd(st))
	return cmd
}

func newLabelsInitCmd(st *state) *cobra.Command {
	var (
		dir    string
		format string
		force  bool
	)
	cmd := &cobra.Command{
		Use:   "init <video>",
		Short: "Write an editable label template for a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				dir = st.cfg.Paths.Labels
			}
			tpl := labels.NewTemplate(args[0])
			path := labels.DefaultTemplatePath(dir, args[0])

			var (
				b   []byte
				err error
			)
			switch strings.ToLower(format) {
			case "json":
				b, err = json.MarshalIndent(tpl, "", "  ")
				b = append(b, '\n')
			case "yaml", "yml":
				b, err = yaml.Marshal(tpl)
				path = strings.TrimSuffix(path, ".json") + ".yaml"
			default:
				return fmt.Errorf("unknown format %q, want json or yaml", format)
			}
			if err != nil {
				return err
			}

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists, use --force to overwrite", path)
			}
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(path, b, 0o644); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "output directory (default paths.labels)")
	cmd.Flags().StringVar(&format, "format", "json", "json or yaml")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
