// Package cache keeps recently fetched API pages in Redis so a re-run
// within the TTL does not spend rate-limited requests again.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"achadinhos/internal/affiliate"
	"achadinhos/internal/model"
)

const keyPrefix = "achadinhos:pagina:"

type kv interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

type PageCache struct {
	Client kv
	TTL    time.Duration
}

func NewPageCache(client *redis.Client, ttl time.Duration) *PageCache {
	return &PageCache{Client: client, TTL: ttl}
}

// Get returns the cached page for q. Misses and Redis failures both report
// ok=false; a failure is only logged.
func (c *PageCache) Get(ctx context.Context, q affiliate.Query) ([]model.RawOffer, bool) {
	val, err := c.Client.Get(ctx, keyPrefix+q.Key()).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("[Cache] Erro ao ler %s: %v", q.Key(), err)
		}
		return nil, false
	}
	var offers []model.RawOffer
	if err := json.Unmarshal([]byte(val), &offers); err != nil {
		log.Printf("[Cache] Entrada inválida para %s: %v", q.Key(), err)
		return nil, false
	}
	return offers, true
}

func (c *PageCache) Set(ctx context.Context, q affiliate.Query, offers []model.RawOffer) {
	b, err := json.Marshal(offers)
	if err != nil {
		log.Printf("[Cache] Erro ao serializar %s: %v", q.Key(), err)
		return
	}
	if err := c.Client.Set(ctx, keyPrefix+q.Key(), b, c.TTL).Err(); err != nil {
		log.Printf("[Cache] Erro ao gravar %s: %v", q.Key(), err)
	}
}

// OfferSource fetches one page of offers.
type OfferSource interface {
	Offers(ctx context.Context, q affiliate.Query) ([]model.RawOffer, error)
}

// Source serves pages from the cache and falls through to Next on a miss.
// Empty pages are not cached.
type Source struct {
	Next  OfferSource
	Cache *PageCache
}

func (s *Source) Offers(ctx context.Context, q affiliate.Query) ([]model.RawOffer, error) {
	if offers, ok := s.Cache.Get(ctx, q); ok {
		log.Printf("[Cache] Página %s servida do cache (%d ofertas)", q.Key(), len(offers))
		return offers, nil
	}
	offers, err := s.Next.Offers(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(offers) > 0 {
		s.Cache.Set(ctx, q, offers)
	}
	return offers, nil
}
