package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryCache struct {
	mu      sync.Mutex
	pages   map[string]*Result
	failGet bool
	sets    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{pages: make(map[string]*Result)}
}

func (m *memoryCache) Get(_ context.Context, url string) (*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet {
		return nil, errors.New("cache down")
	}
	return m.pages[url], nil
}

func (m *memoryCache) Set(_ context.Context, url string, result *Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	m.pages[url] = result
	return nil
}

func (m *memoryCache) Delete(_ context.Context, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pages, url)
	return nil
}

func countingServer(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if strings.HasSuffix(r.URL.Path, "/missing") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("<html><body>" + r.URL.Path + "</body></html>"))
	}))
	t.Cleanup(server.Close)
	return server, &hits
}

func TestCachedFetcher_HitAfterMiss(t *testing.T) {
	server, hits := countingServer(t)
	cache := newMemoryCache()
	fetcher := NewCachedFetcher(cache, nil)

	first, err := fetcher.Fetch(context.Background(), server.URL+"/job")
	require.NoError(t, err)
	assert.False(t, first.FromCache)

	second, err := fetcher.Fetch(context.Background(), server.URL+"/job")
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Equal(t, first.HTML, second.HTML)
	assert.Equal(t, int32(1), hits.Load())
}

func TestCachedFetcher_SkipCache(t *testing.T) {
	server, hits := countingServer(t)
	cache := newMemoryCache()
	fetcher := NewCachedFetcher(cache, &CachedFetcherConfig{SkipCache: true})

	for range 2 {
		_, err := fetcher.Fetch(context.Background(), server.URL+"/job")
		require.NoError(t, err)
	}
	assert.Equal(t, int32(2), hits.Load())
	assert.Zero(t, cache.sets)
}

func TestCachedFetcher_CacheFailureFallsThrough(t *testing.T) {
	server, hits := countingServer(t)
	cache := newMemoryCache()
	cache.failGet = true

	result, err := NewCachedFetcher(cache, nil).Fetch(context.Background(), server.URL+"/job")
	require.NoError(t, err)
	assert.False(t, result.FromCache)
	assert.Equal(t, int32(1), hits.Load())
}

func TestCachedFetcher_ErrorsAreNotCached(t *testing.T) {
	server, _ := countingServer(t)
	cache := newMemoryCache()

	_, err := NewCachedFetcher(cache, nil).Fetch(context.Background(), server.URL+"/missing")
	require.Error(t, err)
	assert.Zero(t, cache.sets)
}

func TestCachedFetcher_Invalidate(t *testing.T) {
	server, hits := countingServer(t)
	cache := newMemoryCache()
	fetcher := NewCachedFetcher(cache, nil)
	ctx := context.Background()

	_, err := fetcher.Fetch(ctx, server.URL+"/job")
	require.NoError(t, err)
	require.NoError(t, fetcher.InvalidateCache(ctx, server.URL+"/job"))
	_, err = fetcher.Fetch(ctx, server.URL+"/job")
	require.NoError(t, err)

	assert.Equal(t, int32(2), hits.Load())
	assert.NoError(t, NewCachedFetcher(nil, nil).InvalidateCache(ctx, "https://example.com"))
}

func TestCachedFetcher_FetchMultiple(t *testing.T) {
	server, _ := countingServer(t)
	fetcher := NewCachedFetcher(nil, nil)
	urls := []string{server.URL + "/a", server.URL + "/missing", server.URL + "/c", "bogus"}

	results, errs := fetcher.FetchMultiple(context.Background(), urls, 2)
	require.Len(t, results, 4)
	require.Len(t, errs, 4)

	assert.NoError(t, errs[0])
	assert.Contains(t, results[0].HTML, "/a")
	assert.Error(t, errs[1])
	assert.Nil(t, results[1])
	assert.Contains(t, results[2].HTML, "/c")
	assert.Error(t, errs[3])
}

func TestRedisCache_Key(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	defer func() { _ = client.Close() }()

	cache, err := NewRedisCache(client, "", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultPageCacheTTL, cache.ttl)

	key := cache.Key("https://example.com/job")
	assert.True(t, strings.HasPrefix(key, DefaultCacheKeyPrefix))
	assert.Len(t, key, len(DefaultCacheKeyPrefix)+64)
	assert.NotEqual(t, key, cache.Key("https://example.com/other"))

	_, err = NewRedisCache(nil, "", 0)
	assert.Error(t, err)
}
