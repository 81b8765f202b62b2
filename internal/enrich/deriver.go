// Package enrich turns canonical ledger rows into display-ready feed entries.
package enrich

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"achadinhos/internal/ledger"
	"achadinhos/internal/model"
)

// SkipReason explains why a row produced no feed entry.
type SkipReason string

const (
	SkipMissingID    SkipReason = "missing_id"
	SkipInvalidSales SkipReason = "invalid_sales"
)

// Result is the outcome for one row: either Offer, or a Skip reason with the
// error behind it.
type Result struct {
	Offer model.EnrichedOffer
	Skip  SkipReason
	Err   error
}

func (r Result) Skipped() bool { return r.Skip != "" }

// Deriver computes the display fields of a feed entry.
type Deriver struct {
	Categories *CategoryTable
}

func NewDeriver(categories *CategoryTable) *Deriver {
	if categories == nil {
		categories = DefaultCategoryTable()
	}
	return &Deriver{Categories: categories}
}

// Derive never fails the batch: a row that cannot be rendered comes back
// with a SkipReason.
func (d *Deriver) Derive(row ledger.Row) Result {
	id := strings.TrimSpace(row[ledger.ColItemID])
	if id == "" {
		return Result{Skip: SkipMissingID, Err: fmt.Errorf("row has no %s", ledger.ColItemID)}
	}

	sales, err := parseSales(row[ledger.ColSales])
	if err != nil {
		return Result{Skip: SkipInvalidSales, Err: fmt.Errorf("item %s: %w", id, err)}
	}

	p := parsePrices(row)
	promo, ref := promotionalPrice(p)
	original, badge := discount(ref, p.discountRate)

	rating := row[ledger.ColRatingStar]
	if strings.TrimSpace(rating) == "" {
		rating = "0"
	}

	return Result{Offer: model.EnrichedOffer{
		ID:               id,
		Titulo:           row[ledger.ColProductName],
		ImagemURL:        row[ledger.ColImageURL],
		PrecoOriginal:    original,
		PrecoPromocional: promo,
		Desconto:         badge,
		Nota:             strings.ReplaceAll(rating, ".", ","),
		Categoria:        d.Categories.Label(row[ledger.ColProductCatIDs]),
		LinkAfiliado:     row[ledger.ColOfferLink],
		DataColeta:       row[ledger.ColCollectedAt],
		Vendas:           fmt.Sprintf("%d vendidos", sales),
		Loja:             row[ledger.ColShopName],
		Ativo:            true,
	}}
}

type prices struct {
	price, min, max float64
	discountRate    float64
}

// parsePrices reads price, priceMin, priceMax and the discount rate. Empty
// priceMin/priceMax fall back to price; any value that is present but
// unparsable zeroes all four.
func parsePrices(row ledger.Row) prices {
	price, err := ledger.FromLedgerNumber(row[ledger.ColPrice])
	if err != nil {
		return prices{}
	}
	p := prices{price: price, min: price, max: price}

	if raw := strings.TrimSpace(row[ledger.ColPriceMin]); raw != "" {
		if p.min, err = ledger.FromLedgerNumber(raw); err != nil {
			return prices{}
		}
	}
	if raw := strings.TrimSpace(row[ledger.ColPriceMax]); raw != "" {
		if p.max, err = ledger.FromLedgerNumber(raw); err != nil {
			return prices{}
		}
	}
	if raw := strings.TrimSpace(strings.ReplaceAll(row[ledger.ColPriceDiscountRate], "%", "")); raw != "" {
		if p.discountRate, err = ledger.FromLedgerNumber(raw); err != nil {
			return prices{}
		}
	}
	return p
}

// promotionalPrice returns the display price and the reference price the
// original price is derived from.
func promotionalPrice(p prices) (string, float64) {
	if p.min < p.max && p.min > 0 {
		return "A partir de " + FormatBRL(p.min), p.min
	}
	return FormatBRL(p.price), p.price
}

// discount derives the pre-discount price and the badge. Rates above 1 are
// percentages (10 -> 0.10); a fraction outside (0, 1) yields nothing.
func discount(ref, rate float64) (original, badge string) {
	if rate <= 0 {
		return "", ""
	}
	frac := rate
	if rate > 1 {
		frac = rate / 100
	}
	if frac <= 0 || frac >= 1 {
		return "", ""
	}
	orig := ref / (1 - frac)
	if math.IsNaN(orig) || math.IsInf(orig, 0) {
		return "", ""
	}
	return FormatBRL(orig), fmt.Sprintf("%d%%", int(math.Round(frac*100)))
}

func parseSales(raw string) (int64, error) {
	v, err := ledger.FromLedgerNumber(raw)
	if err != nil {
		return 0, fmt.Errorf("sales: %w", err)
	}
	if v >= math.MaxInt64 || v < math.MinInt64 {
		return 0, fmt.Errorf("sales %q out of range", raw)
	}
	return int64(v), nil
}

// FormatBRL renders "R$ 1234,50": two decimals, decimal comma, no thousands
// separator.
func FormatBRL(v float64) string {
	return "R$ " + strings.Replace(strconv.FormatFloat(v, 'f', 2, 64), ".", ",", 1)
}
