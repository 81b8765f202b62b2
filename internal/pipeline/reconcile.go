// Package pipeline runs the two jobs of the system: collecting offers into
// the ledger and reconciling the ledger into the site feed.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"achadinhos/internal/dedup"
	"achadinhos/internal/enrich"
	"achadinhos/internal/feed"
	"achadinhos/internal/ledger"
	"achadinhos/internal/model"
	"achadinhos/internal/observability"
	"achadinhos/internal/repository"
)

// Run outcomes, also used as the metric label.
const (
	OutcomeOK          = "ok"
	OutcomeEmpty       = "empty"
	OutcomeStructural  = "structural"
	OutcomePersistence = "persistence"
	OutcomeFeed        = "feed_error"
)

// SnapshotSaver mirrors the published offers somewhere queryable.
type SnapshotSaver interface {
	SaveSnapshot(ctx context.Context, runID string, offers []model.EnrichedOffer) (int, error)
}

// RunRecorder keeps the history of reconcile runs.
type RunRecorder interface {
	Record(ctx context.Context, run repository.RunRecord) error
}

// Summary is reported at the end of every reconcile run, failed or not.
type Summary struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Outcome    string

	LedgerRows    int
	SkippedLines  int
	CanonicalRows int
	Dropped       int
	FeedItems     int
	Skipped       map[enrich.SkipReason]int

	Warning error
	Err     error
}

func (s *Summary) SkippedRows() int {
	n := 0
	for _, c := range s.Skipped {
		n += c
	}
	return n
}

func (s *Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "run=%s outcome=%s ledger=%d canonical=%d descartadas=%d site=%d",
		s.RunID, s.Outcome, s.LedgerRows, s.CanonicalRows, s.Dropped, s.FeedItems)
	if s.SkippedLines > 0 {
		fmt.Fprintf(&b, " linhas_ilegiveis=%d", s.SkippedLines)
	}
	reasons := make([]string, 0, len(s.Skipped))
	for r := range s.Skipped {
		reasons = append(reasons, string(r))
	}
	sort.Strings(reasons)
	for _, r := range reasons {
		fmt.Fprintf(&b, " ignoradas[%s]=%d", r, s.Skipped[enrich.SkipReason(r)])
	}
	if s.Err != nil {
		fmt.Fprintf(&b, " erro=%q", s.Err.Error())
	}
	return b.String()
}

// Reconciler collapses the ledger to one row per item, rewrites it, and
// publishes the feed. Snapshots and Runs are optional.
type Reconciler struct {
	Ledger    *ledger.Store
	Deriver   *enrich.Deriver
	Feed      *feed.Writer
	Snapshots SnapshotSaver
	Runs      RunRecorder

	now func() time.Time
}

func NewReconciler(store *ledger.Store, deriver *enrich.Deriver, w *feed.Writer) *Reconciler {
	return &Reconciler{Ledger: store, Deriver: deriver, Feed: w, now: time.Now}
}

// Run never panics on bad data. The returned summary carries the outcome and
// Err is set when the ledger or the feed could not be written.
func (r *Reconciler) Run(ctx context.Context) *Summary {
	now := r.now
	if now == nil {
		now = time.Now
	}
	sum := &Summary{
		RunID:     uuid.New().String(),
		StartedAt: now(),
		Skipped:   map[enrich.SkipReason]int{},
	}
	tag := "[Reconcile " + sum.RunID[:8] + "]"

	r.reconcile(ctx, sum, tag)

	sum.FinishedAt = now()
	observability.ReconcileRuns.WithLabelValues(sum.Outcome).Inc()
	log.Printf("%s Resumo: %s", tag, sum)

	if r.Runs != nil && sum.Outcome != OutcomeEmpty {
		if err := r.Runs.Record(ctx, runRecord(sum)); err != nil {
			log.Printf("%s Erro ao registrar execução: %v", tag, err)
		}
	}
	return sum
}

func (r *Reconciler) reconcile(ctx context.Context, sum *Summary, tag string) {
	if !r.Ledger.Exists() {
		log.Printf("%s Nenhum dado para organizar.", tag)
		sum.Outcome = OutcomeEmpty
		return
	}

	t, err := r.Ledger.LoadAll()
	if err != nil {
		log.Printf("%s Banco de ofertas ilegível, nada foi alterado: %v", tag, err)
		sum.Outcome = OutcomeStructural
		sum.Err = err
		return
	}
	sum.LedgerRows = t.Len()
	sum.SkippedLines = t.SkippedLines

	res := dedup.Collapse(t)
	sum.CanonicalRows = res.Table.Len()
	sum.Dropped = res.Dropped
	if res.Warning != nil {
		sum.Warning = res.Warning
		log.Printf("%s Aviso: %v", tag, res.Warning)
	}
	observability.CanonicalOffers.Set(float64(sum.CanonicalRows))

	if err := r.Ledger.Rewrite(res.Table); err != nil {
		var pe *ledger.PersistenceError
		if errors.As(err, &pe) && errors.Is(err, ledger.ErrLocked) {
			log.Printf("%s [ERRO CRÍTICO] %s está bloqueado (aberto no Excel?). Feche o arquivo e rode de novo.", tag, pe.Path)
		} else {
			log.Printf("%s [ERRO CRÍTICO] Não foi possível salvar o banco consolidado: %v", tag, err)
		}
		sum.Outcome = OutcomePersistence
		sum.Err = err
		return
	}
	log.Printf("%s Banco consolidado: %d linhas -> %d ofertas únicas", tag, sum.LedgerRows, sum.CanonicalRows)

	offers := make([]model.EnrichedOffer, 0, res.Table.Len())
	for _, row := range res.Table.Rows {
		out := r.Deriver.Derive(row)
		if out.Skipped() {
			sum.Skipped[out.Skip]++
			observability.FeedRowsSkipped.WithLabelValues(string(out.Skip)).Inc()
			log.Printf("%s Linha ignorada (%s): %v", tag, out.Skip, out.Err)
			continue
		}
		offers = append(offers, out.Offer)
	}

	if err := r.Feed.Write(offers); err != nil {
		log.Printf("%s [ERRO] Falha ao gerar o site: %v", tag, err)
		sum.Outcome = OutcomeFeed
		sum.Err = err
		return
	}
	sum.FeedItems = len(offers)
	sum.Outcome = OutcomeOK
	observability.FeedItemsWritten.Add(float64(len(offers)))
	log.Printf("%s Site atualizado com %d ofertas em %s", tag, len(offers), r.Feed.Path)

	if r.Snapshots != nil {
		n, err := r.Snapshots.SaveSnapshot(ctx, sum.RunID, offers)
		if err != nil {
			log.Printf("%s Erro ao espelhar ofertas no Postgres (%d salvas): %v", tag, n, err)
		} else {
			log.Printf("%s %d ofertas espelhadas no Postgres", tag, n)
		}
	}
}

func runRecord(s *Summary) repository.RunRecord {
	rec := repository.RunRecord{
		ID:            s.RunID,
		StartedAt:     s.StartedAt,
		FinishedAt:    s.FinishedAt,
		Outcome:       s.Outcome,
		LedgerRows:    s.LedgerRows,
		CanonicalRows: s.CanonicalRows,
		FeedItems:     s.FeedItems,
		SkippedRows:   s.SkippedRows(),
	}
	if s.Err != nil {
		rec.Error = s.Err.Error()
	}
	return rec
}
