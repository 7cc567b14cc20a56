package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// --- Visualization ---

// TimelineReq plots one label series of a video over time.
type TimelineReq struct {
	Video      string    `json:"video"`
	Timestamps []float64 `json:"timestamps"`
	Labels     []string  `json:"labels"`
	Series     string    `json:"series"`
	OutputDir  string    `json:"output_dir,omitempty"`
}

type PlotResp struct {
	Status string `json:"status"`
	Path   string `json:"path"`
}

func (h *HTTP) GenerateTimeline(ctx context.Context, url string, req TimelineReq) (*PlotResp, error) {
	return h.plot(ctx, "viz timeline", url+"/generate-timeline", req)
}

// RatesReq plots per-video match rates side by side. A nil rate is drawn as
// missing.
type RatesReq struct {
	Videos    []string   `json:"videos"`
	FaceText  []*float64 `json:"face_vs_text"`
	Manual    []*float64 `json:"vs_manual_labels"`
	OutputDir string     `json:"output_dir,omitempty"`
}

func (h *HTTP) GenerateRates(ctx context.Context, url string, req RatesReq) (*PlotResp, error) {
	return h.plot(ctx, "viz rates", url+"/generate-rates", req)
}

func (h *HTTP) plot(ctx context.Context, what, url string, in any) (*PlotResp, error) {
	b, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("%s marshal: %w", what, err)
	}
	r, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	r.Header.Set("Content-Type", "application/json")
	resp, err := h.c.Do(r)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(what, resp)
	}

	var out PlotResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%s decode: %w", what, err)
	}
	return &out, nil
}
