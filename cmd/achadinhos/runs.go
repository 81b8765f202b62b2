package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"achadinhos/internal/db"
	"achadinhos/internal/repository"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Lista as últimas consolidações registradas no Postgres",
	Args:  cobra.NoArgs,
	RunE:  runRuns,
}

func init() {
	runsCmd.Flags().Int("limit", 10, "Quantidade de execuções")
	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, args []string) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL não configurada")
	}
	sqlDB, err := db.New(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	repo := &repository.RunRepository{DB: sqlDB}
	list, err := repo.Last(cmd.Context(), limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, r := range list {
		fmt.Fprintf(out, "%s  %s  %-11s ledger=%d canonical=%d site=%d ignoradas=%d",
			r.StartedAt.Format("02/01/2006 15:04:05"), shortID(r.ID), r.Outcome,
			r.LedgerRows, r.CanonicalRows, r.FeedItems, r.SkippedRows)
		if r.Error != "" {
			fmt.Fprintf(out, "  erro=%s", r.Error)
		}
		fmt.Fprintln(out)
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
