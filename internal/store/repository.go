// Package store persists coverage reports and derived toll tables to PostgreSQL.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/tollcalc/internal/coverage"
	"github.com/wonny/tollcalc/internal/table"
)

// Repository handles coverage and toll table persistence
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const schemaDDL = `
	CREATE SCHEMA IF NOT EXISTS toll;

	CREATE TABLE IF NOT EXISTS toll.coverage_results (
		run_id           TEXT        NOT NULL,
		id               TEXT        NOT NULL,
		id_2             TEXT        NOT NULL,
		covers_full_day  BOOLEAN     NOT NULL,
		covers_full_week BOOLEAN     NOT NULL,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (run_id, id, id_2)
	);

	CREATE TABLE IF NOT EXISTS toll.table_rows (
		run_id     TEXT        NOT NULL,
		name       TEXT        NOT NULL,
		row_num    INTEGER     NOT NULL,
		payload    JSONB       NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (run_id, name, row_num)
	);
`

// EnsureSchema creates the tables used by the repository if they are missing
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// SaveCoverage upserts every group result of a report under runID
func (r *Repository) SaveCoverage(ctx context.Context, runID string, report *coverage.Report) error {
	query := `
		INSERT INTO toll.coverage_results (run_id, id, id_2, covers_full_day, covers_full_week)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (run_id, id, id_2) DO UPDATE SET
			covers_full_day = EXCLUDED.covers_full_day,
			covers_full_week = EXCLUDED.covers_full_week,
			created_at = NOW()
	`

	batch := &pgx.Batch{}
	for _, key := range report.SortedKeys() {
		res := report.Results[key]
		batch.Queue(query, runID, key.ID, key.ID2, res.CoversFullDay, res.CoversFullWeek)
	}

	if err := r.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("save coverage results: %w", err)
	}
	return nil
}

// GetCoverage loads the results saved under runID
func (r *Repository) GetCoverage(ctx context.Context, runID string) (map[coverage.GroupKey]coverage.Result, error) {
	query := `
		SELECT id, id_2, covers_full_day, covers_full_week
		FROM toll.coverage_results
		WHERE run_id = $1
	`

	rows, err := r.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("query coverage results: %w", err)
	}
	defer rows.Close()

	results := make(map[coverage.GroupKey]coverage.Result)
	for rows.Next() {
		var key coverage.GroupKey
		var res coverage.Result
		if err := rows.Scan(&key.ID, &key.ID2, &res.CoversFullDay, &res.CoversFullWeek); err != nil {
			return nil, fmt.Errorf("scan coverage result: %w", err)
		}
		results[key] = res
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate coverage results: %w", err)
	}
	return results, nil
}

// SaveTable stores every row of t as a JSON object under (runID, name)
func (r *Repository) SaveTable(ctx context.Context, runID, name string, t *table.Table) error {
	payloads, err := rowPayloads(t)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO toll.table_rows (run_id, name, row_num, payload)
		VALUES ($1, $2, $3, $4::jsonb)
		ON CONFLICT (run_id, name, row_num) DO UPDATE SET
			payload = EXCLUDED.payload,
			created_at = NOW()
	`

	batch := &pgx.Batch{}
	for i, payload := range payloads {
		batch.Queue(query, runID, name, i, payload)
	}

	if err := r.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("save table %s: %w", name, err)
	}
	return nil
}

// CountRuns returns how many distinct runs have saved coverage since the given time
func (r *Repository) CountRuns(ctx context.Context, since time.Time) (int, error) {
	var count int
	query := `SELECT COUNT(DISTINCT run_id) FROM toll.coverage_results WHERE created_at >= $1`

	if err := r.pool.QueryRow(ctx, query, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("count runs: %w", err)
	}
	return count, nil
}

// rowPayloads encodes rows as JSON objects restricted to the table's columns
func rowPayloads(t *table.Table) ([]string, error) {
	payloads := make([]string, 0, t.Len())
	for i, row := range t.Rows {
		obj := make(map[string]string, len(t.Columns))
		for _, col := range t.Columns {
			obj[col] = row[col]
		}
		data, err := json.Marshal(obj)
		if err != nil {
			return nil, fmt.Errorf("encode row %d: %w", i, err)
		}
		payloads = append(payloads, string(data))
	}
	return payloads, nil
}
