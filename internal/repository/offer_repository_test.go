package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"achadinhos/internal/model"
)

type execCall struct {
	sql  string
	args []any
}

type fakeExec struct {
	calls  []execCall
	failAt int
}

func (f *fakeExec) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.calls = append(f.calls, execCall{sql: sql, args: args})
	if f.failAt > 0 && len(f.calls) == f.failAt {
		return pgconn.CommandTag{}, errors.New("duplicate key")
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func offers() []model.EnrichedOffer {
	return []model.EnrichedOffer{
		{ID: "11", Titulo: "Fone Bluetooth", PrecoPromocional: "R$ 59,90", Categoria: "Áudio", Ativo: true},
		{ID: "12", Titulo: "Capinha", PrecoPromocional: "R$ 9,90", Categoria: "Celulares", Ativo: true},
	}
}

func TestOfferRepository_SaveSnapshot(t *testing.T) {
	db := &fakeExec{}
	repo := &OfferRepository{DB: db}

	n, err := repo.SaveSnapshot(context.Background(), "run-1", offers())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, db.calls, 2)
	assert.Contains(t, db.calls[0].sql, "ON CONFLICT (item_id) DO UPDATE")
	assert.Equal(t, "11", db.calls[0].args[0])
	assert.Equal(t, "Fone Bluetooth", db.calls[0].args[1])
	assert.Equal(t, "run-1", db.calls[1].args[12])
}

func TestOfferRepository_StopsAtFirstFailure(t *testing.T) {
	db := &fakeExec{failAt: 1}
	repo := &OfferRepository{DB: db}

	n, err := repo.SaveSnapshot(context.Background(), "run-1", offers())
	assert.Zero(t, n)
	assert.ErrorContains(t, err, "upsert oferta 11")
	assert.Len(t, db.calls, 1)
}
