package cmd

import (
	"fmt"
	"os"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/spf13/cobra"

	"github.com/maastricht-university/emocong/annotate"
	"github.com/maastricht-university/emocong/clients"
	"github.com/maastricht-university/emocong/config"
	"github.com/maastricht-university/emocong/orchestrator"
)

func newTranscribeCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "transcribe <video> <audio>",
		Short: "Transcribe a video's audio track with the ASR service",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, _ := st.pipeline(nil)

			h := clients.NewHTTP(config.DurSeconds(st.cfg.Services.Timeout))
			out, err := p.Transcribe(cmd.Context(), args[0], args[1], clients.ASRService{HTTP: h, URL: st.cfg.Services.ASR.URL})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func newClassifyCmd(st *state) *cobra.Command {
	var skipFace, skipText bool
	cmd := &cobra.Command{
		Use:   "classify [videos...]",
		Short: "Run the face and text classifiers, or every video with a frames directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, _ := st.pipeline(nil)

			var (
				cls orchestrator.Classifiers
				err error
			)
			h := clients.NewHTTP(config.DurSeconds(st.cfg.Services.Timeout))
			if !skipFace {
				cls.Face = clients.FaceService{HTTP: h, URL: st.cfg.Services.FaceEmotion.URL}
			}
			if !skipText {
				if cls.Text, err = textClassifier(st.cfg, h); err != nil {
					return err
				}
			}

			videos := args
			if len(videos) == 0 {
				if videos, err = p.FrameVideos(); err != nil {
					return err
				}
			}
			res := make([]orchestrator.VideoResult, 0, len(videos))
			var ok, fail int
			for _, v := range videos {
				r := orchestrator.VideoResult{Video: v}
				if err := p.Classify(cmd.Context(), v, cls); err != nil {
					r.Err = err
					fail++
					st.log.WithField("video", v).WithError(err).Warn("classify FAIL")
				} else {
					ok++
				}
				res = append(res, r)
			}
			printSummary(cmd.OutOrStdout(), res, ok, fail)
			return nil
		},
	}
	cmd.Flags().BoolVar(&skipFace, "skip-face", false, "do not classify frames")
	cmd.Flags().BoolVar(&skipText, "skip-text", false, "do not classify the transcript")
	return cmd
}

func textClassifier(c *config.Root, h *clients.HTTP) (annotate.TextClassifier, error) {
	if c.Classifier.Text != "openai" {
		return clients.TextService{HTTP: h, URL: c.Services.TextEmotion.URL}, nil
	}
	key := os.Getenv("OPENAI_API_KEY")
	if key == "" {
		return nil, fmt.Errorf("%w: classifier.text is openai but OPENAI_API_KEY is not set", config.ErrInvalidConfig)
	}
	client := openai.NewClient(option.WithAPIKey(key))
	return clients.NewOpenAIText(&client, c.OpenAI.Model), nil
}
