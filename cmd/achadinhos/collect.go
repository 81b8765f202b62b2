package main

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"achadinhos/internal/affiliate"
	"achadinhos/internal/cache"
	"achadinhos/internal/pipeline"
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Minera ofertas na API de afiliados, grava no banco e regenera o site",
	Args:  cobra.NoArgs,
	RunE:  runCollect,
}

func init() {
	collectCmd.Flags().Bool("skip-site", false, "Não regenera o site ao final da coleta")
	rootCmd.AddCommand(collectCmd)
}

func newAPIClient() *affiliate.Client {
	c := affiliate.NewClient(cfg.AppID, cfg.APISecret, cfg.APIURL, cfg.RequestInterval)
	c.RetryWait = cfg.RetryWait
	return c
}

// offerSource wraps the API client with the Redis page cache when REDIS_URL
// is set. The returned func releases the Redis client.
func offerSource(ctx context.Context, client *affiliate.Client) (cache.OfferSource, func()) {
	if cfg.RedisURL == "" {
		return client, func() {}
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Printf("[Cache] REDIS_URL inválida, seguindo sem cache: %v", err)
		return client, func() {}
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("[Cache] Redis indisponível, seguindo sem cache: %v", err)
		rdb.Close()
		return client, func() {}
	}
	return &cache.Source{Next: client, Cache: cache.NewPageCache(rdb, cfg.CacheTTL)}, func() { rdb.Close() }
}

func runCollect(cmd *cobra.Command, args []string) error {
	if err := cfg.RequireCredentials(); err != nil {
		return err
	}
	ctx := cmd.Context()

	categories, err := categoryTable()
	if err != nil {
		return err
	}
	src, release := offerSource(ctx, newAPIClient())
	defer release()

	collector := pipeline.NewCollector(src, ledgerStore(), categories)
	if _, err := collector.Run(ctx); err != nil {
		return err
	}

	if skip, _ := cmd.Flags().GetBool("skip-site"); skip {
		return nil
	}
	return reconcile(ctx)
}
