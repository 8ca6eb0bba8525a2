package storage

import (
	"context"
	"database/sql"
	"strings"

	_ "modernc.org/sqlite"

	"mdceval/internal/results"
)

type sqliteStore struct {
	baseStore
}

func NewSQLite(dsn string) (Store, error) {
	if strings.TrimSpace(dsn) == "" {
		dsn = "file:mdceval.db?_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	return &sqliteStore{baseStore{db: db}}, nil
}

func (s *sqliteStore) Init(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			created_at TEXT NOT NULL,
			duration REAL NOT NULL,
			n_injections INTEGER NOT NULL,
			n_found INTEGER NOT NULL,
			chirp_mode INTEGER NOT NULL,
			far_json TEXT NOT NULL,
			fg_far_json TEXT NOT NULL,
			sensitivity_json TEXT NOT NULL,
			indices_json TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *sqliteStore) SaveRun(ctx context.Context, run results.Run) error {
	if s.db == nil || run.Results == nil {
		return nil
	}
	res := run.Results
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (created_at, duration, n_injections, n_found, chirp_mode,
			far_json, fg_far_json, sensitivity_json, indices_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.CreatedAt.UTC(),
		res.Duration,
		res.NInjections,
		res.NFound,
		res.ChirpMode,
		encodeJSON(map[string]any{"stats": res.FARStats, "far": res.FAR}),
		encodeJSON(map[string]any{"stats": res.FgFARStats, "far": res.FgFAR}),
		encodeJSON(res.Sensitivity),
		encodeJSON(map[string]any{
			"found":          res.FoundIndices,
			"missed":         res.MissedIndices,
			"true_positive":  res.TruePositiveEventIndices,
			"false_positive": res.FalsePositiveEventIndices,
		}),
	)
	return err
}
