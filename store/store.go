// Package store keeps analysis records and batch runs in SQLite so they can
// be served and compared across runs.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a video has no stored analysis.
var ErrNotFound = errors.New("not found")

type Store struct {
	conn *sql.DB
}

// Analysis is the stored form of one video's analysis. Body is the full
// record exactly as written to the output file.
type Analysis struct {
	Video        string          `json:"video"`
	RunID        string          `json:"run_id"`
	NFaceChanges int             `json:"n_face_changes"`
	NTextChanges int             `json:"n_text_changes"`
	FaceTextRate *float64        `json:"face_text_rate"`
	ManualRate   *float64        `json:"manual_rate"`
	Body         json.RawMessage `json:"body,omitempty"`
}

// Run is one batch invocation.
type Run struct {
	ID        string    `json:"id"`
	OK        int       `json:"ok"`
	Fail      int       `json:"fail"`
	StartedAt time.Time `json:"started_at"`
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// a single connection serializes writers; sqlite locks the file anyway
	conn.SetMaxOpenConns(1)
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	s := &Store{conn: conn}
	if err := s.createTables(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return s, nil
}

func (s *Store) createTables() error {
	query := `
	CREATE TABLE IF NOT EXISTS analyses (
		video TEXT PRIMARY KEY,
		run_id TEXT NOT NULL,
		n_face_changes INTEGER NOT NULL,
		n_text_changes INTEGER NOT NULL,
		face_text_rate REAL,
		manual_rate REAL,
		body TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		ok INTEGER NOT NULL,
		fail INTEGER NOT NULL,
		started_at DATETIME NOT NULL
	);
	`
	_, err := s.conn.Exec(query)
	return err
}

func (s *Store) Close() error {
	return s.conn.Close()
}

// SaveAnalysis inserts or replaces the analysis of a video.
func (s *Store) SaveAnalysis(ctx context.Context, a Analysis) error {
	_, err := s.conn.ExecContext(ctx, `
	INSERT INTO analyses (video, run_id, n_face_changes, n_text_changes, face_text_rate, manual_rate, body)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(video) DO UPDATE SET
		run_id = excluded.run_id,
		n_face_changes = excluded.n_face_changes,
		n_text_changes = excluded.n_text_changes,
		face_text_rate = excluded.face_text_rate,
		manual_rate = excluded.manual_rate,
		body = excluded.body`,
		a.Video, a.RunID, a.NFaceChanges, a.NTextChanges, nullable(a.FaceTextRate), nullable(a.ManualRate), string(a.Body))
	if err != nil {
		return fmt.Errorf("failed to save analysis %s: %w", a.Video, err)
	}
	return nil
}

// GetAnalysis returns the stored analysis of video, body included.
func (s *Store) GetAnalysis(ctx context.Context, video string) (*Analysis, error) {
	row := s.conn.QueryRowContext(ctx, `
	SELECT video, run_id, n_face_changes, n_text_changes, face_text_rate, manual_rate, body
	FROM analyses WHERE video = ?`, video)
	a, err := scanAnalysis(row, true)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("analysis %s: %w", video, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis %s: %w", video, err)
	}
	return a, nil
}

// ListAnalyses returns every stored analysis ordered by video, without
// bodies.
func (s *Store) ListAnalyses(ctx context.Context) ([]Analysis, error) {
	rows, err := s.conn.QueryContext(ctx, `
	SELECT video, run_id, n_face_changes, n_text_changes, face_text_rate, manual_rate, ''
	FROM analyses ORDER BY video`)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	out := []Analysis{}
	for rows.Next() {
		a, err := scanAnalysis(rows, false)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// SaveRun records a finished batch.
func (s *Store) SaveRun(ctx context.Context, r Run) error {
	_, err := s.conn.ExecContext(ctx,
		`INSERT OR REPLACE INTO runs (id, ok, fail, started_at) VALUES (?, ?, ?, ?)`,
		r.ID, r.OK, r.Fail, r.StartedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to save run %s: %w", r.ID, err)
	}
	return nil
}

// ListRuns returns runs newest first.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT id, ok, fail, started_at FROM runs ORDER BY started_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	out := []Run{}
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.OK, &r.Fail, &r.StartedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(sc scanner, withBody bool) (*Analysis, error) {
	var (
		a      Analysis
		ft, mr sql.NullFloat64
		body   string
	)
	if err := sc.Scan(&a.Video, &a.RunID, &a.NFaceChanges, &a.NTextChanges, &ft, &mr, &body); err != nil {
		return nil, err
	}
	if ft.Valid {
		a.FaceTextRate = &ft.Float64
	}
	if mr.Valid {
		a.ManualRate = &mr.Float64
	}
	if withBody {
		a.Body = json.RawMessage(body)
	}
	return &a, nil
}

func nullable(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}
