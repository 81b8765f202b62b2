package repository

import (
	"context"
	"database/sql"
	"time"
)

// RunRecord is one reconciliation run as stored in reconcile_runs.
type RunRecord struct {
	ID            string
	StartedAt     time.Time
	FinishedAt    time.Time
	Outcome       string
	LedgerRows    int
	CanonicalRows int
	FeedItems     int
	SkippedRows   int
	Error         string
}

type RunRepository struct {
	DB *sql.DB
}

func (r *RunRepository) Record(ctx context.Context, run RunRecord) error {
	var errText sql.NullString
	if run.Error != "" {
		errText = sql.NullString{String: run.Error, Valid: true}
	}
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO reconcile_runs
		(id, started_at, finished_at, outcome, ledger_rows, canonical_rows, feed_items, skipped_rows, error)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, run.ID, run.StartedAt, run.FinishedAt, run.Outcome, run.LedgerRows, run.CanonicalRows, run.FeedItems, run.SkippedRows, errText)
	return err
}

// Last returns the most recent runs, newest first.
func (r *RunRepository) Last(ctx context.Context, limit int) ([]RunRecord, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, started_at, finished_at, outcome, ledger_rows, canonical_rows, feed_items, skipped_rows, error
		FROM reconcile_runs
		ORDER BY started_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []RunRecord
	for rows.Next() {
		var run RunRecord
		var errText sql.NullString
		if err := rows.Scan(&run.ID, &run.StartedAt, &run.FinishedAt, &run.Outcome, &run.LedgerRows, &run.CanonicalRows, &run.FeedItems, &run.SkippedRows, &errText); err != nil {
			return nil, err
		}
		run.Error = errText.String
		list = append(list, run)
	}
	return list, rows.Err()
}
