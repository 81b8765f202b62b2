package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"achadinhos/internal/ledger"
)

func table(cols []string, rows ...[]string) *ledger.Table {
	t := &ledger.Table{Schema: ledger.NewSchema(cols...)}
	for _, r := range rows {
		row := ledger.Row{}
		for i, c := range cols {
			row[c] = r[i]
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

var cols = []string{ledger.ColCollectedAt, ledger.ColStrategy, ledger.ColItemID, ledger.ColCommission}

func ids(t *ledger.Table) []string {
	out := make([]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		out = append(out, r[ledger.ColItemID]+"/"+r[ledger.ColStrategy])
	}
	return out
}

func TestCollapse_KeepsMostRecent(t *testing.T) {
	in := table(cols,
		[]string{"01/03/2025 10:00", "velho", "1", "9,00"},
		[]string{"05/03/2025 08:00", "novo", "1", "2,00"},
		[]string{"03/03/2025 12:00", "meio", "1", "5,00"},
	)

	res := Collapse(in)
	require.NoError(t, res.Warning)
	assert.Equal(t, []string{"1/novo"}, ids(res.Table))
	assert.Equal(t, 2, res.Dropped)
}

func TestCollapse_TieBrokenByCommission(t *testing.T) {
	in := table(cols,
		[]string{"05/03/2025 08:00", "baixa", "1", "2,00"},
		[]string{"05/03/2025 08:00", "alta", "1", "1.200,50"},
		[]string{"05/03/2025 08:00", "media", "1", "15,75"},
	)

	res := Collapse(in)
	assert.Equal(t, []string{"1/alta"}, ids(res.Table))
}

func TestCollapse_InvalidDateNeverWinsOverValid(t *testing.T) {
	in := table(cols,
		[]string{"lixo", "sem-data", "1", "999"},
		[]string{"01/01/2020 00:00", "antigo", "1", "1,00"},
		[]string{"", "vazio", "2", "3"},
	)

	res := Collapse(in)
	assert.Equal(t, []string{"1/antigo", "2/vazio"}, ids(res.Table))
}

func TestCollapse_OrdersOutputByRecency(t *testing.T) {
	in := table(cols,
		[]string{"01/03/2025 10:00", "a", "1", "2"},
		[]string{"02/03/2025 10:00", "b", "2", "2"},
		[]string{"03/03/2025 10:00", "c", "3", "2"},
	)

	res := Collapse(in)
	assert.Equal(t, []string{"3/c", "2/b", "1/a"}, ids(res.Table))
}

func TestCollapse_GarbageCommissionDoesNotAbort(t *testing.T) {
	in := table(cols,
		[]string{"05/03/2025 08:00", "lixo", "1", "4.236.759"},
		[]string{"05/03/2025 08:00", "texto", "1", "abc"},
	)

	res := Collapse(in)
	require.NoError(t, res.Warning)
	assert.Equal(t, []string{"1/lixo"}, ids(res.Table))
}

func TestCollapse_DropsRowsWithoutItemID(t *testing.T) {
	in := table(cols,
		[]string{"05/03/2025 08:00", "sem-id", "", "2"},
		[]string{"05/03/2025 08:00", "ok", "7", "2"},
	)

	res := Collapse(in)
	assert.Equal(t, []string{"7/ok"}, ids(res.Table))
	assert.Equal(t, 1, res.Dropped)
}

func TestCollapse_FallbackKeepsLastWhenColumnsMissing(t *testing.T) {
	in := table([]string{ledger.ColStrategy, ledger.ColItemID},
		[]string{"primeiro", "1"},
		[]string{"unico", "2"},
		[]string{"ultimo", "1"},
	)

	res := Collapse(in)
	require.Error(t, res.Warning)
	assert.Contains(t, res.Warning.Error(), ledger.ColCollectedAt)
	assert.Equal(t, []string{"2/unico", "1/ultimo"}, ids(res.Table))
}

func TestCollapse_NoItemIDColumnPassesThrough(t *testing.T) {
	in := table([]string{ledger.ColStrategy, ledger.ColCommission},
		[]string{"a", "1"},
		[]string{"b", "1"},
	)

	res := Collapse(in)
	require.NoError(t, res.Warning)
	assert.Len(t, res.Table.Rows, 2)
}

func TestCollapse_IsIdempotent(t *testing.T) {
	in := table(cols,
		[]string{"01/03/2025 10:00", "a", "1", "2"},
		[]string{"05/03/2025 10:00", "b", "1", "2"},
		[]string{"05/03/2025 10:00", "c", "2", "8"},
		[]string{"05/03/2025 10:00", "d", "3", "8"},
	)

	first := Collapse(in)
	second := Collapse(first.Table)
	assert.Equal(t, ids(first.Table), ids(second.Table))
	assert.Equal(t, 0, second.Dropped)
}
