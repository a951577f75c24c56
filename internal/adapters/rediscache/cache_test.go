package rediscache_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"qrtrack/internal/adapters/memstore"
	"qrtrack/internal/adapters/rediscache"
	"qrtrack/internal/app/links"
	"qrtrack/internal/domain"
	"qrtrack/internal/testutils/storagetest"
)

type fakeRedis struct {
	mu      sync.Mutex
	data    map[string]string
	ttls    map[string]time.Duration
	gets    int
	failGet error
	failSet error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.gets++
	if f.failGet != nil {
		return redis.NewStringResult("", f.failGet)
	}

	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}

	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failSet != nil {
		return redis.NewStatusResult("", f.failSet)
	}

	switch v := value.(type) {
	case string:
		f.data[key] = v
	case []byte:
		f.data[key] = string(v)
	}
	f.ttls[key] = ttl

	return redis.NewStatusResult("OK", nil)
}

type countingStore struct {
	*memstore.Store
	gets int
}

func (c *countingStore) GetShortLink(ctx context.Context, id string) (domain.ShortLink, error) {
	c.gets++
	return c.Store.GetShortLink(ctx, id)
}

func TestStore_GetShortLink_ReadThrough(t *testing.T) {
	ctx := context.Background()
	backing := &countingStore{Store: memstore.New()}
	_, err := backing.Store.InsertShortLink(ctx, "Ab3dE6gH", "https://example.com", json.RawMessage(`{"a":1}`))
	require.NoError(t, err)

	rdb := newFakeRedis()
	cache := rediscache.New(backing, rdb, rediscache.Config{TTL: 10 * time.Minute}, nil)

	first, err := cache.GetShortLink(ctx, "Ab3dE6gH")
	require.NoError(t, err)
	require.Equal(t, 1, backing.gets)
	require.Equal(t, 10*time.Minute, rdb.ttls["qrtrack:link:Ab3dE6gH"])

	second, err := cache.GetShortLink(ctx, "Ab3dE6gH")
	require.NoError(t, err)
	require.Equal(t, 1, backing.gets)
	require.Equal(t, first.OriginalURL, second.OriginalURL)
	require.JSONEq(t, `{"a":1}`, string(second.StyleOptions))
	require.True(t, first.CreatedAt.Equal(second.CreatedAt))
}

func TestStore_GetShortLink_NegativeCache(t *testing.T) {
	ctx := context.Background()
	backing := &countingStore{Store: memstore.New()}
	rdb := newFakeRedis()
	cache := rediscache.New(backing, rdb, rediscache.Config{}, nil)

	_, err := cache.GetShortLink(ctx, "missing1")
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.Equal(t, rediscache.DefaultNegativeTTL, rdb.ttls["qrtrack:link:missing1"])

	_, err = cache.GetShortLink(ctx, "missing1")
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.Equal(t, 1, backing.gets)
}

func TestStore_InsertShortLink_ReplacesCachedMiss(t *testing.T) {
	ctx := context.Background()
	backing := &countingStore{Store: memstore.New()}
	rdb := newFakeRedis()
	cache := rediscache.New(backing, rdb, rediscache.Config{}, nil)

	_, err := cache.GetShortLink(ctx, "Ab3dE6gH")
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = cache.InsertShortLink(ctx, "Ab3dE6gH", "https://example.com", nil)
	require.NoError(t, err)

	got, err := cache.GetShortLink(ctx, "Ab3dE6gH")
	require.NoError(t, err)
	require.Equal(t, "https://example.com", got.OriginalURL)
}

func TestStore_GetShortLink_RedisDownFallsBack(t *testing.T) {
	ctx := context.Background()
	backing := &countingStore{Store: memstore.New()}
	_, err := backing.Store.InsertShortLink(ctx, "Ab3dE6gH", "https://example.com", nil)
	require.NoError(t, err)

	rdb := newFakeRedis()
	rdb.failGet = errors.New("connection refused")
	rdb.failSet = errors.New("connection refused")
	cache := rediscache.New(backing, rdb, rediscache.Config{}, nil)

	for i := 0; i < 2; i++ {
		got, err := cache.GetShortLink(ctx, "Ab3dE6gH")
		require.NoError(t, err)
		require.Equal(t, "https://example.com", got.OriginalURL)
	}
	require.Equal(t, 2, backing.gets)
}

func TestStore_PassesThroughScanMethods(t *testing.T) {
	ctx := context.Background()
	backing := memstore.New()
	cache := rediscache.New(backing, newFakeRedis(), rediscache.Config{}, nil)

	_, err := cache.InsertScan(ctx, domain.ScanInput{QRID: "Ab3dE6gH", IP: "1.1.1.1"})
	require.NoError(t, err)

	n, err := backing.CountScans(ctx, "Ab3dE6gH")
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

func TestStore_Contract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) links.Storage {
		return rediscache.New(memstore.New(), newFakeRedis(), rediscache.Config{}, nil)
	})
}
