package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunRepository_Record(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	start := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	run := RunRecord{
		ID:            "6f1c2a9e-0000-4000-8000-000000000001",
		StartedAt:     start,
		FinishedAt:    start.Add(2 * time.Second),
		Outcome:       "ok",
		LedgerRows:    120,
		CanonicalRows: 80,
		FeedItems:     78,
		SkippedRows:   2,
	}
	mock.ExpectExec("INSERT INTO reconcile_runs").
		WithArgs(run.ID, run.StartedAt, run.FinishedAt, "ok", 120, 80, 78, 2, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := &RunRepository{DB: db}
	require.NoError(t, repo.Record(context.Background(), run))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunRepository_RecordError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO reconcile_runs").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), "persistence", 0, 0, 0, 0, "ledger rewrite: locked").
		WillReturnError(errors.New("relation does not exist"))

	repo := &RunRepository{DB: db}
	err = repo.Record(context.Background(), RunRecord{ID: "x", Outcome: "persistence", Error: "ledger rewrite: locked"})
	assert.EqualError(t, err, "relation does not exist")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunRepository_Last(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	start := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "started_at", "finished_at", "outcome", "ledger_rows", "canonical_rows", "feed_items", "skipped_rows", "error"}).
		AddRow("b", start.Add(time.Hour), start.Add(time.Hour+time.Second), "ok", 90, 60, 60, 0, nil).
		AddRow("a", start, start.Add(time.Second), "feed_error", 80, 50, 0, 1, "write feed: denied")
	mock.ExpectQuery("SELECT (.+) FROM reconcile_runs").WithArgs(2).WillReturnRows(rows)

	repo := &RunRepository{DB: db}
	list, err := repo.Last(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ID)
	assert.Equal(t, 60, list[0].FeedItems)
	assert.Empty(t, list[0].Error)
	assert.Equal(t, "feed_error", list[1].Outcome)
	assert.Equal(t, "write feed: denied", list[1].Error)
	assert.NoError(t, mock.ExpectationsWereMet())
}
