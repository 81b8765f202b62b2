package cache

import (
	"bytes"
	"context"
	"errors"
	"log"
	"math"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"achadinhos/internal/affiliate"
	"achadinhos/internal/model"
)

type fakeKV struct {
	data   map[string]string
	getErr error
	ttl    time.Duration
}

func newFakeKV() *fakeKV { return &fakeKV{data: map[string]string{}} }

func (f *fakeKV) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeKV) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.data[key] = string(value.([]byte))
	f.ttl = expiration
	return redis.NewStatusResult("OK", nil)
}

type countingSource struct {
	calls  int
	offers []model.RawOffer
	err    error
}

func (s *countingSource) Offers(ctx context.Context, q affiliate.Query) ([]model.RawOffer, error) {
	s.calls++
	return s.offers, s.err
}

func TestSource_MissThenHit(t *testing.T) {
	kv := newFakeKV()
	next := &countingSource{offers: []model.RawOffer{{ProductName: "Mochila", ItemID: "42", Price: 99.9, ProductCatIDs: model.IDList{100015}}}}
	src := &Source{Next: next, Cache: &PageCache{Client: kv, TTL: time.Minute}}
	q := affiliate.Query{Page: 1, SortType: affiliate.SortItemSold}

	first, err := src.Offers(context.Background(), q)
	require.NoError(t, err)
	second, err := src.Offers(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, 1, next.calls)
	assert.Equal(t, first, second)
	assert.Equal(t, time.Minute, kv.ttl)
}

func TestSource_EmptyPagesAreNotCached(t *testing.T) {
	kv := newFakeKV()
	next := &countingSource{}
	src := &Source{Next: next, Cache: &PageCache{Client: kv, TTL: time.Minute}}

	_, _ = src.Offers(context.Background(), affiliate.Query{})
	_, _ = src.Offers(context.Background(), affiliate.Query{})

	assert.Equal(t, 2, next.calls)
	assert.Empty(t, kv.data)
}

func TestSource_RedisFailureFallsThrough(t *testing.T) {
	kv := newFakeKV()
	kv.getErr = errors.New("connection refused")
	next := &countingSource{offers: []model.RawOffer{{ItemID: "1"}}}
	src := &Source{Next: next, Cache: &PageCache{Client: kv, TTL: time.Minute}}

	offers, err := src.Offers(context.Background(), affiliate.Query{})
	require.NoError(t, err)
	assert.Len(t, offers, 1)
	assert.Equal(t, 1, next.calls)
}

func TestSource_PropagatesSourceError(t *testing.T) {
	next := &countingSource{err: errors.New("timeout")}
	src := &Source{Next: next, Cache: &PageCache{Client: newFakeKV(), TTL: time.Minute}}

	_, err := src.Offers(context.Background(), affiliate.Query{})
	assert.Error(t, err)
}

func TestPageCache_SetLogsUnencodablePage(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	kv := newFakeKV()
	c := &PageCache{Client: kv, TTL: time.Minute}
	q := affiliate.Query{Page: 1, SortType: affiliate.SortItemSold}

	c.Set(context.Background(), q, []model.RawOffer{{ItemID: "1", Price: model.Number(math.NaN())}})

	assert.Empty(t, kv.data)
	assert.Contains(t, buf.String(), "Erro ao serializar "+q.Key())
}
