// Package dedup collapses the append-only ledger into one canonical row per
// item: the most recent observation, ties broken by the higher commission.
package dedup

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"achadinhos/internal/ledger"
)

// Result is the canonical ledger plus what it took to get there.
type Result struct {
	Table *ledger.Table

	// Dropped counts rows removed, duplicates and rows without an itemId.
	Dropped int

	// Warning is set when ranking was impossible and the keep-last fallback
	// was used. It is never fatal.
	Warning error
}

type ranked struct {
	row        ledger.Row
	at         time.Time
	validAt    bool
	commission float64
}

// Collapse ranks rows by (Data Coleta desc, commission desc) and keeps the
// first row per itemId. The input table is not modified.
func Collapse(t *ledger.Table) Result {
	out := &ledger.Table{Schema: t.Schema, SkippedLines: t.SkippedLines}

	if !t.Schema.Has(ledger.ColItemID) {
		out.Rows = append([]ledger.Row(nil), t.Rows...)
		return Result{Table: out}
	}

	if missing := missingColumns(t.Schema, ledger.ColCollectedAt, ledger.ColCommission); len(missing) > 0 {
		out.Rows = keepLast(t.Rows)
		return Result{
			Table:   out,
			Dropped: len(t.Rows) - len(out.Rows),
			Warning: fmt.Errorf("ranking unavailable, missing columns %s: kept last row per item", strings.Join(missing, ", ")),
		}
	}

	items := make([]ranked, 0, len(t.Rows))
	for _, row := range t.Rows {
		if strings.TrimSpace(row[ledger.ColItemID]) == "" {
			continue
		}
		at, ok := ParseCollectedAt(row[ledger.ColCollectedAt])
		items = append(items, ranked{
			row:        row,
			at:         at,
			validAt:    ok,
			commission: ledger.FromLedgerNumberLossy(row[ledger.ColCommission]),
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.validAt != b.validAt {
			return a.validAt
		}
		if !a.at.Equal(b.at) {
			return a.at.After(b.at)
		}
		return a.commission > b.commission
	})

	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		id := strings.TrimSpace(it.row[ledger.ColItemID])
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out.Rows = append(out.Rows, it.row)
	}

	return Result{Table: out, Dropped: len(t.Rows) - len(out.Rows)}
}

// ParseCollectedAt reads a Data Coleta value; ok is false for anything that
// does not match dd/mm/yyyy HH:MM.
func ParseCollectedAt(s string) (time.Time, bool) {
	at, err := time.Parse(ledger.CollectedAtLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return at, true
}

// keepLast keeps the last occurrence of each itemId, preserving file order
// among the survivors.
func keepLast(rows []ledger.Row) []ledger.Row {
	last := make(map[string]int, len(rows))
	for i, row := range rows {
		if id := strings.TrimSpace(row[ledger.ColItemID]); id != "" {
			last[id] = i
		}
	}
	kept := make([]ledger.Row, 0, len(last))
	for i, row := range rows {
		id := strings.TrimSpace(row[ledger.ColItemID])
		if id != "" && last[id] == i {
			kept = append(kept, row)
		}
	}
	return kept
}

func missingColumns(s ledger.Schema, cols ...string) []string {
	var missing []string
	for _, c := range cols {
		if !s.Has(c) {
			missing = append(missing, c)
		}
	}
	return missing
}
