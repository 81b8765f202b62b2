package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"achadinhos/internal/model"
)

type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// OfferRepository mirrors the published offers into Postgres, one row per
// item, so price history tooling can query them. It is a *pgxpool.Pool in
// production.
type OfferRepository struct {
	DB execer
}

const upsertOffer = `
	INSERT INTO ofertas
	(item_id, titulo, imagem_url, preco_original, preco_promocional, desconto, nota, categoria, link_afiliado, loja, vendas, data_coleta, run_id, atualizado_em)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, now())
	ON CONFLICT (item_id) DO UPDATE SET
		titulo = EXCLUDED.titulo,
		imagem_url = EXCLUDED.imagem_url,
		preco_original = EXCLUDED.preco_original,
		preco_promocional = EXCLUDED.preco_promocional,
		desconto = EXCLUDED.desconto,
		nota = EXCLUDED.nota,
		categoria = EXCLUDED.categoria,
		link_afiliado = EXCLUDED.link_afiliado,
		loja = EXCLUDED.loja,
		vendas = EXCLUDED.vendas,
		data_coleta = EXCLUDED.data_coleta,
		run_id = EXCLUDED.run_id,
		atualizado_em = now()
`

// SaveSnapshot upserts offers and returns how many were written. It stops at
// the first failing row.
func (r *OfferRepository) SaveSnapshot(ctx context.Context, runID string, offers []model.EnrichedOffer) (int, error) {
	saved := 0
	for _, o := range offers {
		_, err := r.DB.Exec(ctx, upsertOffer,
			o.ID, o.Titulo, o.ImagemURL, o.PrecoOriginal, o.PrecoPromocional, o.Desconto,
			o.Nota, o.Categoria, o.LinkAfiliado, o.Loja, o.Vendas, o.DataColeta, runID,
		)
		if err != nil {
			return saved, fmt.Errorf("upsert oferta %s: %w", o.ID, err)
		}
		saved++
	}
	return saved, nil
}
