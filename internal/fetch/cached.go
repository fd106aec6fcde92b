package fetch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jonathan/bestintern/internal/logger"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

// DefaultPageCacheTTL is how long a fetched page stays cached.
const DefaultPageCacheTTL = 24 * time.Hour

// DefaultCacheKeyPrefix namespaces page cache keys.
const DefaultCacheKeyPrefix = "bestintern:page:"

// PageCache stores fetched pages keyed by URL. Get returns nil, nil on a miss.
type PageCache interface {
	Get(ctx context.Context, url string) (*Result, error)
	Set(ctx context.Context, url string, result *Result) error
	Delete(ctx context.Context, url string) error
}

// RedisCache is a PageCache backed by Redis string keys with a TTL.
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCache creates a Redis page cache. A zero ttl uses DefaultPageCacheTTL.
func NewRedisCache(client *redis.Client, prefix string, ttl time.Duration) (*RedisCache, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client cannot be nil")
	}
	if prefix == "" {
		prefix = DefaultCacheKeyPrefix
	}
	if ttl <= 0 {
		ttl = DefaultPageCacheTTL
	}
	return &RedisCache{client: client, prefix: prefix, ttl: ttl}, nil
}

// Key returns the Redis key used for url.
func (c *RedisCache) Key(url string) string {
	sum := sha256.Sum256([]byte(url))
	return c.prefix + hex.EncodeToString(sum[:])
}

func (c *RedisCache) Get(ctx context.Context, url string) (*Result, error) {
	raw, err := c.client.Get(ctx, c.Key(url)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached page %s: %w", url, err)
	}
	var result Result
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("corrupted cache entry for %s: %w", url, err)
	}
	return &result, nil
}

func (c *RedisCache) Set(ctx context.Context, url string, result *Result) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode page %s: %w", url, err)
	}
	if err := c.client.Set(ctx, c.Key(url), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache page %s: %w", url, err)
	}
	return nil
}

func (c *RedisCache) Delete(ctx context.Context, url string) error {
	// Del on a missing key returns 0 with no error.
	return c.client.Del(ctx, c.Key(url)).Err()
}

// CachedFetcher wraps URL fetching with an optional page cache.
type CachedFetcher struct {
	cache     PageCache
	options   *Options
	skipCache bool
}

// CachedFetcherConfig holds configuration for the cached fetcher.
type CachedFetcherConfig struct {
	SkipCache bool
	Options   *Options
}

// NewCachedFetcher creates a new cached fetcher. A nil cache fetches every time.
func NewCachedFetcher(cache PageCache, config *CachedFetcherConfig) *CachedFetcher {
	if config == nil {
		config = &CachedFetcherConfig{}
	}
	if config.Options == nil {
		config.Options = DefaultOptions()
	}
	return &CachedFetcher{
		cache:     cache,
		options:   config.Options,
		skipCache: config.SkipCache,
	}
}

// CachedResult extends Result with cache metadata.
type CachedResult struct {
	*Result
	FromCache bool
}

func (f *CachedFetcher) cacheEnabled() bool {
	return f.cache != nil && !f.skipCache
}

// Fetch retrieves a URL, serving it from the cache when present.
// Cache read and write failures are logged and never fail the fetch.
func (f *CachedFetcher) Fetch(ctx context.Context, urlStr string) (*CachedResult, error) {
	log := logger.Component("fetch")

	if f.cacheEnabled() {
		cached, err := f.cache.Get(ctx, urlStr)
		if err != nil {
			log.Warn().Err(err).Str("url", urlStr).Msg("page cache read failed")
		} else if cached != nil {
			log.Debug().Str("url", urlStr).Msg("page cache hit")
			return &CachedResult{Result: cached, FromCache: true}, nil
		}
	}

	result, err := URL(ctx, urlStr, f.options)
	if err != nil {
		return nil, err
	}

	if f.cacheEnabled() {
		if err := f.cache.Set(ctx, urlStr, result); err != nil {
			log.Warn().Err(err).Str("url", urlStr).Msg("page cache write failed")
		}
	}

	return &CachedResult{Result: result}, nil
}

// FetchMultiple fetches URLs concurrently, at most limit at a time.
// Results keep input order; failed fetches are nil with the error at the same index.
func (f *CachedFetcher) FetchMultiple(ctx context.Context, urls []string, limit int) ([]*CachedResult, []error) {
	results := make([]*CachedResult, len(urls))
	errs := make([]error, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, u := range urls {
		g.Go(func() error {
			results[i], errs[i] = f.Fetch(gctx, u)
			return nil
		})
	}
	_ = g.Wait()

	return results, errs
}

// InvalidateCache drops the cached copy of a URL.
func (f *CachedFetcher) InvalidateCache(ctx context.Context, urlStr string) error {
	if f.cache == nil {
		return nil
	}
	return f.cache.Delete(ctx, urlStr)
}
