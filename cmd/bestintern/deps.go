package main

import (
	"context"
	"fmt"

	"github.com/jonathan/bestintern/internal/db"
	"github.com/jonathan/bestintern/internal/fetch"
	"github.com/jonathan/bestintern/internal/llm"
	"github.com/jonathan/bestintern/internal/logger"
	"github.com/jonathan/bestintern/internal/prompts"
	"github.com/jonathan/bestintern/internal/storage"
	"github.com/redis/go-redis/v9"
)

// newModel builds the configured model client with the system prompt stored
// under systemKey in assistant.json, unless one is configured.
// Tests replace it with a scripted client.
var newModel = func(ctx context.Context, systemKey string) (llm.Client, error) {
	clientCfg := appConfig.LLMClientConfig()
	if clientCfg.SystemPrompt == "" {
		prompt, err := prompts.Get("assistant.json", systemKey)
		if err != nil {
			return nil, err
		}
		clientCfg.SystemPrompt = prompt
	}
	if !clientCfg.Model.Known() {
		log := logger.Component("cli")
		log.Warn().Str("model", string(clientCfg.Model)).Msg("unknown model identifier")
	}
	return llm.NewClient(ctx, clientCfg, appConfig.LLM.APIKey)
}

// openDB connects to the configured database and ensures its tables exist.
func openDB(ctx context.Context) (*db.DB, error) {
	if appConfig.Database.URL == "" {
		return nil, fmt.Errorf("database.url is not configured (set BESTINTERN_DATABASE_URL)")
	}
	database, err := db.Connect(ctx, appConfig.Database.URL)
	if err != nil {
		return nil, err
	}
	if err := database.EnsureSchema(ctx); err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}

// newFetcher returns a static page fetcher, cached in Redis when redis.addr is set.
func newFetcher(skipCache bool) (*fetch.CachedFetcher, func(), error) {
	fetcherCfg := &fetch.CachedFetcherConfig{SkipCache: skipCache, Options: appConfig.FetchOptions()}
	if appConfig.Redis.Addr == "" {
		return fetch.NewCachedFetcher(nil, fetcherCfg), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     appConfig.Redis.Addr,
		Password: appConfig.Redis.Password,
		DB:       appConfig.Redis.DB,
	})
	cache, err := fetch.NewRedisCache(client, appConfig.Redis.KeyPrefix, appConfig.Redis.TTL)
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	return fetch.NewCachedFetcher(cache, fetcherCfg), func() { _ = client.Close() }, nil
}

// newObjectStore connects to the configured MinIO bucket.
func newObjectStore() (*storage.ObjectStore, error) {
	if appConfig.Minio == nil {
		return nil, fmt.Errorf("minio is not configured (set minio.endpoint and minio.bucket)")
	}
	return storage.NewObjectStore(*appConfig.Minio)
}
