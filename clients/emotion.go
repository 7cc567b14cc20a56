package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// --- Text emotion (/detect) ---
type EmoReq struct {
	Text string `json:"text"`
}
type EmoScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}
type EmoResp struct {
	Emotions        []EmoScore `json:"emotions"`
	DominantEmotion string     `json:"dominant_emotion"`
}

// Scores flattens the score list; later duplicates win.
func (r *EmoResp) Scores() map[string]float64 {
	out := make(map[string]float64, len(r.Emotions))
	for _, e := range r.Emotions {
		out[e.Label] = e.Score
	}
	return out
}

// Dominant returns DominantEmotion, or the best scored label when the
// service left it empty.
func (r *EmoResp) Dominant() string {
	if r.DominantEmotion != "" {
		return r.DominantEmotion
	}
	best := -1.0
	lbl := ""
	for _, e := range r.Emotions {
		if e.Score > best {
			best, lbl = e.Score, e.Label
		}
	}
	return lbl
}

func (h *HTTP) TextEmotion(ctx context.Context, url, text string) (*EmoResp, error) {
	b, err := json.Marshal(EmoReq{Text: text})
	if err != nil {
		return nil, fmt.Errorf("emotion marshal: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url+"/detect", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("emotion", resp)
	}

	var out EmoResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("emotion decode: %w", err)
	}
	return &out, nil
}

// TextService binds the text emotion endpoint to a base URL.
type TextService struct {
	HTTP *HTTP
	URL  string
}

func (s TextService) ClassifyText(ctx context.Context, text string) (string, map[string]float64, error) {
	r, err := s.HTTP.TextEmotion(ctx, s.URL, text)
	if err != nil {
		return "", nil, err
	}
	return r.Dominant(), r.Scores(), nil
}
