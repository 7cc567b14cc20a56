package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/maastricht-university/emocong/store"
)

// Reader is the part of the store the API needs.
type Reader interface {
	ListAnalyses(ctx context.Context) ([]store.Analysis, error)
	GetAnalysis(ctx context.Context, video string) (*store.Analysis, error)
	ListRuns(ctx context.Context) ([]store.Run, error)
}

type App struct {
	Store  Reader
	Logger *logrus.Entry
}

func (app *App) log() *logrus.Entry {
	if app.Logger == nil {
		return logrus.NewEntry(logrus.StandardLogger())
	}
	return app.Logger
}

func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}

// ListVideosHandler returns the summary row of every stored analysis.
func (app *App) ListVideosHandler(w http.ResponseWriter, r *http.Request) {
	list, err := app.Store.ListAnalyses(r.Context())
	if err != nil {
		app.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// VideoHandler returns the full analysis of one video as it was written to
// its output file.
func (app *App) VideoHandler(w http.ResponseWriter, r *http.Request) {
	video := chi.URLParam(r, "video")
	a, err := app.Store.GetAnalysis(r.Context(), video)
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "no analysis for " + video})
		return
	}
	if err != nil {
		app.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(a.Body)
}

func (app *App) ListRunsHandler(w http.ResponseWriter, r *http.Request) {
	runs, err := app.Store.ListRuns(r.Context())
	if err != nil {
		app.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

type errorBody struct {
	Error string `json:"error"`
}

func (app *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	app.log().WithField("path", r.URL.Path).WithError(err).Error("request failed")
	writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
