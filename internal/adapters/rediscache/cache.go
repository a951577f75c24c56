// Package rediscache puts a read-through Redis cache in front of the short
// link lookup. Links never change once stored, so entries need no
// invalidation; misses are cached briefly so unknown ids do not hammer the
// database.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"qrtrack/internal/app/links"
	"qrtrack/internal/domain"
)

const (
	keyPrefix   = "qrtrack:link:"
	missingMark = "null"

	DefaultTTL         = time.Hour
	DefaultNegativeTTL = time.Minute
)

// RedisClient is the subset of *redis.Client the cache uses.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

type Config struct {
	TTL         time.Duration
	NegativeTTL time.Duration
}

// Store wraps a links.Storage; only GetShortLink goes through Redis.
type Store struct {
	links.Storage

	rdb         RedisClient
	ttl         time.Duration
	negativeTTL time.Duration
	log         links.Logger
}

func New(next links.Storage, rdb RedisClient, cfg Config, log links.Logger) *Store {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}

	if cfg.NegativeTTL <= 0 {
		cfg.NegativeTTL = DefaultNegativeTTL
	}

	if log == nil {
		log = links.NopLogger{}
	}

	return &Store{
		Storage:     next,
		rdb:         rdb,
		ttl:         cfg.TTL,
		negativeTTL: cfg.NegativeTTL,
		log:         log,
	}
}

var _ links.Storage = (*Store)(nil)

type cachedLink struct {
	ID           string          `json:"id"`
	OriginalURL  string          `json:"original_url"`
	StyleOptions json.RawMessage `json:"style_options,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// GetShortLink serves from Redis when it can. Redis failures degrade to a
// direct read and are only logged.
func (s *Store) GetShortLink(ctx context.Context, id string) (domain.ShortLink, error) {
	key := keyPrefix + id

	raw, err := s.rdb.Get(ctx, key).Result()
	switch {
	case err == nil:
		if raw == missingMark {
			return domain.ShortLink{}, domain.ErrNotFound
		}

		var c cachedLink
		if err := json.Unmarshal([]byte(raw), &c); err == nil {
			return domain.ShortLink{
				ID:           c.ID,
				OriginalURL:  c.OriginalURL,
				StyleOptions: c.StyleOptions,
				CreatedAt:    c.CreatedAt,
			}, nil
		}

		s.log.Warn("rediscache: corrupt entry", "key", key)
	case errors.Is(err, redis.Nil):
	default:
		s.log.Warn("rediscache: get failed", "key", key, "error", err)
	}

	link, err := s.Storage.GetShortLink(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		s.set(ctx, key, missingMark, s.negativeTTL)

		return domain.ShortLink{}, err
	}

	if err != nil {
		return domain.ShortLink{}, err
	}

	payload, err := json.Marshal(cachedLink{
		ID:           link.ID,
		OriginalURL:  link.OriginalURL,
		StyleOptions: link.StyleOptions,
		CreatedAt:    link.CreatedAt,
	})
	if err == nil {
		s.set(ctx, key, payload, s.ttl)
	}

	return link, nil
}

// InsertShortLink drops any cached miss for the id so a fresh link resolves
// immediately.
func (s *Store) InsertShortLink(
	ctx context.Context,
	id, originalURL string,
	styleOptions json.RawMessage,
) (domain.ShortLink, error) {
	link, err := s.Storage.InsertShortLink(ctx, id, originalURL, styleOptions)
	if err != nil {
		return domain.ShortLink{}, err
	}

	if payload, err := json.Marshal(cachedLink{
		ID:           link.ID,
		OriginalURL:  link.OriginalURL,
		StyleOptions: link.StyleOptions,
		CreatedAt:    link.CreatedAt,
	}); err == nil {
		s.set(ctx, keyPrefix+id, payload, s.ttl)
	}

	return link, nil
}

func (s *Store) set(ctx context.Context, key string, value any, ttl time.Duration) {
	if err := s.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		s.log.Warn("rediscache: set failed", "key", key, "error", err)
	}
}

// Open parses a redis:// URL and checks the server answers.
func Open(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("rediscache: parse url: %w", err)
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()

		return nil, fmt.Errorf("rediscache: ping: %w", err)
	}

	return rdb, nil
}
