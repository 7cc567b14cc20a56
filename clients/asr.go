package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/maastricht-university/emocong/multimodal"
)

type TransSeg struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}
type ASRResp struct {
	Segments []TransSeg `json:"segments"`
	Language string     `json:"language"`
}

// upload POSTs path as the multipart "file" field and decodes the JSON reply.
func (h *HTTP) upload(ctx context.Context, what, url, path string, out any) error {
	var b bytes.Buffer
	w := multipart.NewWriter(&b)

	fw, err := w.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return err
	}
	fd, err := os.Open(path)
	if err != nil {
		return err
	}
	defer fd.Close()

	if _, err = io.Copy(fw, fd); err != nil {
		return err
	}
	if err = w.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &b)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := h.c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(what, resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s decode: %w", what, err)
	}
	return nil
}

// ASR transcribes an audio file.
func (h *HTTP) ASR(ctx context.Context, url, wavPath string) (*ASRResp, error) {
	var out ASRResp
	if err := h.upload(ctx, "asr", url+"/transcribe", wavPath, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FaceResp is the facial model's answer for one frame. Scores are on the
// model's 0-100 scale.
type FaceResp struct {
	DominantEmotion string             `json:"dominant_emotion"`
	Emotions        map[string]float64 `json:"emotions"`
	// Error is set by the service when no face was found.
	Error string `json:"error,omitempty"`
}

// FaceEmotion classifies the face in one frame image.
func (h *HTTP) FaceEmotion(ctx context.Context, url, imgPath string) (*FaceResp, error) {
	var out FaceResp
	if err := h.upload(ctx, "face", url+"/detect-face", imgPath, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FaceService binds the face endpoint to a base URL.
type FaceService struct {
	HTTP *HTTP
	URL  string
}

func (s FaceService) ClassifyFace(ctx context.Context, imgPath string) (string, map[string]float64, error) {
	r, err := s.HTTP.FaceEmotion(ctx, s.URL, imgPath)
	if err != nil {
		return "", nil, err
	}
	if r.Error != "" {
		return "", nil, fmt.Errorf("face: %s", r.Error)
	}
	return r.DominantEmotion, r.Emotions, nil
}

// ASRService binds the speech-to-text endpoint to a base URL.
type ASRService struct {
	HTTP *HTTP
	URL  string
}

// Transcribe returns the transcript of an audio file in the shape the merge
// stage reads.
func (s ASRService) Transcribe(ctx context.Context, audioPath string) (*multimodal.Transcript, error) {
	r, err := s.HTTP.ASR(ctx, s.URL, audioPath)
	if err != nil {
		return nil, err
	}
	tr := &multimodal.Transcript{Language: r.Language, Segments: make([]multimodal.TranscriptSegment, 0, len(r.Segments))}
	for _, seg := range r.Segments {
		tr.Segments = append(tr.Segments, multimodal.TranscriptSegment{Start: seg.Start, End: seg.End, Text: seg.Text})
	}
	return tr, nil
}
