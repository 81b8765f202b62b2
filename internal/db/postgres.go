package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
)

func New(url string) (*sql.DB, error) {
	return sql.Open("postgres", url)
}

func NewPool(ctx context.Context, url string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS ofertas (
		item_id           TEXT PRIMARY KEY,
		titulo            TEXT NOT NULL,
		imagem_url        TEXT,
		preco_original    TEXT,
		preco_promocional TEXT,
		desconto          TEXT,
		nota              TEXT,
		categoria         TEXT,
		link_afiliado     TEXT,
		loja              TEXT,
		vendas            TEXT,
		data_coleta       TEXT,
		run_id            UUID NOT NULL,
		atualizado_em     TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS reconcile_runs (
		id             UUID PRIMARY KEY,
		started_at     TIMESTAMPTZ NOT NULL,
		finished_at    TIMESTAMPTZ NOT NULL,
		outcome        TEXT NOT NULL,
		ledger_rows    INTEGER NOT NULL,
		canonical_rows INTEGER NOT NULL,
		feed_items     INTEGER NOT NULL,
		skipped_rows   INTEGER NOT NULL,
		error          TEXT
	)`,
}

// Migrate creates the mirror tables when missing.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
