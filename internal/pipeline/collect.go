package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"achadinhos/internal/affiliate"
	"achadinhos/internal/cache"
	"achadinhos/internal/enrich"
	"achadinhos/internal/ledger"
	"achadinhos/internal/observability"
)

// Strategy is one labelled query against the offers API.
type Strategy struct {
	Label string
	Query affiliate.Query
}

// GlobalStrategies run first, without a category.
var GlobalStrategies = []Strategy{
	{Label: "Mais Vendidos Geral", Query: affiliate.Query{Page: 1, SortType: affiliate.SortItemSold, ListType: affiliate.ListAll}},
	{Label: "Recomendação Geral", Query: affiliate.Query{Page: 1, SortType: 0, ListType: affiliate.ListAll}},
}

type nicheSort struct {
	name     string
	sortType int
}

var nicheSorts = []nicheSort{
	{"Mais Vendidos", affiliate.SortItemSold},
	{"Alta Comissão", affiliate.SortCommission},
	{"Relevância", affiliate.SortRelevance},
}

// NicheStrategies expands one category into its per-category queries.
func NicheStrategies(categoryID int64, name string) []Strategy {
	list := make([]Strategy, 0, len(nicheSorts))
	for _, s := range nicheSorts {
		list = append(list, Strategy{
			Label: fmt.Sprintf("%s - %s", name, s.name),
			Query: affiliate.Query{
				Page:       1,
				CategoryID: categoryID,
				SortType:   s.sortType,
				ListType:   affiliate.ListDetailCategory,
			},
		})
	}
	return list
}

// CollectSummary counts what a collect run did.
type CollectSummary struct {
	Batches  int
	Failed   int
	Received int
	Rejected int
	Written  int
}

// Collector mines the offers API into the ledger: global strategies first,
// then one pass per category already present in the ledger.
type Collector struct {
	Source     cache.OfferSource
	Ledger     *ledger.Store
	Categories *enrich.CategoryTable

	now func() time.Time
}

func NewCollector(src cache.OfferSource, store *ledger.Store, categories *enrich.CategoryTable) *Collector {
	if categories == nil {
		categories = enrich.DefaultCategoryTable()
	}
	return &Collector{Source: src, Ledger: store, Categories: categories, now: time.Now}
}

// Run stops early only when ctx is done. API and write failures skip the
// batch and are counted in Failed.
func (c *Collector) Run(ctx context.Context) (CollectSummary, error) {
	var sum CollectSummary

	log.Printf("[Collector] Fase 1: estratégias globais")
	for _, s := range GlobalStrategies {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		c.collect(ctx, s, &sum)
	}

	ids, err := c.Ledger.DiscoverCategoryIDs()
	if err != nil {
		log.Printf("[Collector] Não foi possível ler categorias do banco: %v", err)
		return sum, nil
	}
	log.Printf("[Collector] Fase 2: %d categorias encontradas no banco", len(ids))

	for _, id := range ids {
		name, ok := c.Categories.Lookup(id)
		if !ok {
			name = strconv.FormatInt(id, 10)
		}
		for _, s := range NicheStrategies(id, name) {
			if err := ctx.Err(); err != nil {
				return sum, err
			}
			c.collect(ctx, s, &sum)
		}
	}

	log.Printf("[Collector] Coleta finalizada: %d lotes (%d com falha), %d recebidas, %d gravadas, %d rejeitadas",
		sum.Batches, sum.Failed, sum.Received, sum.Written, sum.Rejected)
	return sum, nil
}

func (c *Collector) collect(ctx context.Context, s Strategy, sum *CollectSummary) {
	sum.Batches++

	offers, err := c.Source.Offers(ctx, s.Query)
	if err != nil {
		sum.Failed++
		if errors.Is(err, affiliate.ErrRateLimited) {
			log.Printf("[Collector] %s: limite de requisições, lote ignorado", s.Label)
		} else {
			log.Printf("[Collector] %s: erro na API: %v", s.Label, err)
		}
		return
	}

	now := c.now
	if now == nil {
		now = time.Now
	}
	res, err := c.Ledger.Append(offers, s.Label, now())
	sum.Received += res.Received
	sum.Rejected += res.Rejected
	sum.Written += res.Written
	observability.LedgerRowsRejected.Add(float64(res.Rejected))
	observability.LedgerRowsAppended.Add(float64(res.Written))
	if err != nil {
		sum.Failed++
		log.Printf("[Collector] %s: erro ao gravar lote: %v", s.Label, err)
		return
	}
	log.Printf("[Collector] %s: %d recebidas, %d gravadas", s.Label, res.Received, res.Written)
}
