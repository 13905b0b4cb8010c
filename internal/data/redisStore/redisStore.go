package redisStore

import (
	"context"
	"fmt"
	"sync"

	"github.com/akolanti/KnowledgeSearch/internal/config"
	"github.com/akolanti/KnowledgeSearch/pkg/logger_i"
	"github.com/redis/go-redis/v9"
)

var (
	instances = make(map[int]*Store)
	mu        sync.RWMutex
	logger    *logger_i.Logger
	once      sync.Once
)

type Store struct {
	client *redis.Client
	Type   int
}

// GetRedisStore returns the shared store for a logical DB, connecting on first use.
// Clients are closed when ctx is done.
func GetRedisStore(ctx context.Context, cfg config.SessionConfig, dbType int) (*Store, error) {
	mu.RLock()
	instance, exists := instances[dbType]
	mu.RUnlock()

	if exists {
		return instance, nil
	}

	mu.Lock()
	defer mu.Unlock()

	if instance, exists = instances[dbType]; exists {
		return instance, nil
	}
	return createNewStore(ctx, cfg, dbType)
}

func initLogger(dbType int) {
	if logger == nil {
		logger = logger_i.NewLogger(fmt.Sprintf("Redis Store: %d", dbType))
	}
}

func closeRedisStores(ctx context.Context) {
	<-ctx.Done()
	logger.Info("Closing Redis Stores")
	mu.Lock()
	defer mu.Unlock()
	for dbType, store := range instances {
		if err := store.client.Close(); err != nil {
			logger.Error("Error closing redis client", "error", err)
		}
		delete(instances, dbType)
	}
	logger.Info("Redis Store Closed successfully")
}

func createNewStore(ctx context.Context, cfg config.SessionConfig, dbType int) (*Store, error) {
	addr := cfg.RedisAddr
	if addr == "" {
		addr = config.RedisAddr
	}
	newClient := redis.NewClient(&redis.Options{
		Addr:                  addr,
		Password:              cfg.RedisPassword,
		DB:                    dbType,
		ContextTimeoutEnabled: true,
		ReadTimeout:           config.RedisIOTimeout,
		WriteTimeout:          config.RedisIOTimeout,
	})

	initLogger(dbType)

	pingCtx, cancel := context.WithTimeout(ctx, config.RedisPingTimeout)
	defer cancel()

	if err := newClient.Ping(pingCtx).Err(); err != nil {
		logger.Error("Redis is offline", "addr", addr, "error", err)
		_ = newClient.Close()
		return nil, fmt.Errorf("redis at %s: %w", addr, err)
	}

	logger.Info("Redis client init successfully", "addr", addr, "db", dbType)

	newStore := &Store{
		client: newClient,
		Type:   dbType,
	}

	instances[dbType] = newStore
	once.Do(func() {
		go closeRedisStores(ctx)
	})
	return newStore, nil
}

// NewTestStore wraps an existing client, for tests against miniredis.
func NewTestStore(client *redis.Client) *Store {
	initLogger(0)
	return &Store{
		client: client,
	}
}
