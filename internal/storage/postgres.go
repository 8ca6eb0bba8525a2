package storage

import (
	"context"
	"database/sql"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"

	"mdceval/internal/results"
)

type postgresStore struct {
	baseStore
}

func NewPostgres(dsn string) (Store, error) {
	if strings.TrimSpace(dsn) == "" {
		dsn = "postgres://localhost:5432/mdceval?sslmode=disable"
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	return &postgresStore{baseStore{db: db}}, nil
}

func (s *postgresStore) Init(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id BIGSERIAL PRIMARY KEY,
			created_at TIMESTAMPTZ NOT NULL,
			duration DOUBLE PRECISION NOT NULL,
			n_injections INTEGER NOT NULL,
			n_found INTEGER NOT NULL,
			chirp_mode BOOLEAN NOT NULL,
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

func (s *postgresStore) SaveRun(ctx context.Context, run results.Run) error {
	if s.db == nil || run.Results == nil {
		return nil
	}
	res := run.Results
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (created_at, duration, n_injections, n_found, chirp_mode,
			far_json, fg_far_json, sensitivity_json, indices_json)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
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
