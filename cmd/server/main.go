package main

import (
	"context"
	"log"
	"yatube/internal/cache"
	"yatube/internal/config"
	"yatube/internal/db"
	"yatube/internal/router"
	"yatube/internal/tracing"
)

const cacheNamespace = "yatube"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	shutdown, err := tracing.Init(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize tracing: %v", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			log.Printf("Tracing shutdown: %v", err)
		}
	}()

	// Initialize Database
	db.Init(cfg)

	store, err := newCacheStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize cache: %v", err)
	}

	r, err := router.Setup(cfg, db.DB, store)
	if err != nil {
		log.Fatalf("Failed to set up router: %v", err)
	}

	log.Printf("Yatube server starting on :%s (cache: %s, ttl %s)", cfg.Port, cfg.CacheBackend, cfg.IndexCacheTTL)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}

func newCacheStore(cfg *config.Config) (cache.Store, error) {
	switch cfg.CacheBackend {
	case "redis":
		client, err := cache.NewRedisClient(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		return cache.NewRedis(client, cacheNamespace), nil
	case "badger":
		bdb, err := cache.OpenBadger(cfg.CacheDir)
		if err != nil {
			return nil, err
		}
		return cache.NewBadger(bdb, cacheNamespace), nil
	default:
		return cache.NewMemory(cfg.CacheSize)
	}
}
