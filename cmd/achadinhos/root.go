package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"achadinhos/internal/config"
	"achadinhos/internal/db"
	"achadinhos/internal/enrich"
	"achadinhos/internal/feed"
	"achadinhos/internal/ledger"
	"achadinhos/internal/observability"
	"achadinhos/internal/pipeline"
	"achadinhos/internal/repository"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "achadinhos",
	Short: "Coleta ofertas de afiliado e gera o site de achadinhos",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		if v, _ := cmd.Flags().GetString("ledger"); v != "" {
			cfg.LedgerPath = v
		}
		if v, _ := cmd.Flags().GetString("feed"); v != "" {
			cfg.FeedPath = v
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if cfg.MetricsPort != "" {
			observability.Start(cfg.MetricsPort)
			log.Printf("[Metrics] Servindo /metrics na porta %s", cfg.MetricsPort)
		}
		return nil
	},
	SilenceUsage: true,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("ledger", "", "Caminho do banco de ofertas (sobrepõe LEDGER_PATH)")
	rootCmd.PersistentFlags().String("feed", "", "Caminho do arquivo do site (sobrepõe FEED_PATH)")
}

func categoryTable() (*enrich.CategoryTable, error) {
	if cfg.CategoryMapPath == "" {
		return enrich.DefaultCategoryTable(), nil
	}
	return enrich.LoadCategoryTable(cfg.CategoryMapPath)
}

func ledgerStore() *ledger.Store {
	return ledger.NewStore(cfg.LedgerPath, ledger.QualityFilter{
		MinRating:     cfg.MinRating,
		MinSales:      cfg.MinSales,
		MinCommission: cfg.MinCommission,
	})
}

// mirrors holds the optional Postgres connections. close is always safe to
// call.
type mirrors struct {
	sqlDB *sql.DB
	pool  *pgxpool.Pool
}

func (m *mirrors) close() {
	if m.pool != nil {
		m.pool.Close()
	}
	if m.sqlDB != nil {
		m.sqlDB.Close()
	}
}

func openMirrors(ctx context.Context) *mirrors {
	m := &mirrors{}
	if cfg.DatabaseURL == "" {
		return m
	}
	sqlDB, err := db.New(cfg.DatabaseURL)
	if err != nil {
		log.Printf("[DB] Erro ao abrir Postgres, espelhamento desativado: %v", err)
		return m
	}
	if err := db.Migrate(ctx, sqlDB); err != nil {
		log.Printf("[DB] Erro ao preparar tabelas, espelhamento desativado: %v", err)
		sqlDB.Close()
		return m
	}
	m.sqlDB = sqlDB

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Printf("[DB] Erro ao conectar pool pgx, ofertas não serão espelhadas: %v", err)
		return m
	}
	m.pool = pool
	return m
}

func newReconciler(m *mirrors) (*pipeline.Reconciler, error) {
	categories, err := categoryTable()
	if err != nil {
		return nil, err
	}
	r := pipeline.NewReconciler(ledgerStore(), enrich.NewDeriver(categories), feed.NewWriter(cfg.FeedPath, cfg.FeedVariable))
	if m.pool != nil {
		r.Snapshots = &repository.OfferRepository{DB: m.pool}
	}
	if m.sqlDB != nil {
		r.Runs = &repository.RunRepository{DB: m.sqlDB}
	}
	return r, nil
}

// reconcile runs the reconciler and turns a failed run into a command error.
func reconcile(ctx context.Context) error {
	m := openMirrors(ctx)
	defer m.close()

	r, err := newReconciler(m)
	if err != nil {
		return err
	}
	sum := r.Run(ctx)
	if sum.Err != nil {
		return fmt.Errorf("consolidação falhou (%s): %w", sum.Outcome, sum.Err)
	}
	return nil
}
