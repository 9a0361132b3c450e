package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/syncbridge/backend/internal/application/sync"
	"github.com/syncbridge/backend/internal/domain/integration"
)

const defaultLockKey = "syncbridge:sync:lock"

// releaseScript deletes the lease only if it still holds our token, so a
// lease that expired and was re-acquired by another worker is never
// released by the original holder.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisSyncLock implements sync.SyncLock as a shared Redis lease. This is
// the lock to use when multiple workers run: SETNX with a TTL keeps the
// at-most-one-concurrent-sync guarantee across processes, and the TTL
// bounds how long a crashed worker can keep the lease hostage.
type RedisSyncLock struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisSyncLock creates a lock backed by a fresh Redis connection
func NewRedisSyncLock(cfg RedisConfig, ttl time.Duration) (*RedisSyncLock, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisSyncLockWithClient(client, "", ttl), nil
}

// NewRedisSyncLockWithClient creates a lock over an existing client. Useful
// for testing or when sharing a client across components.
func NewRedisSyncLockWithClient(client *redis.Client, key string, ttl time.Duration) *RedisSyncLock {
	if key == "" {
		key = defaultLockKey
	}
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &RedisSyncLock{
		client: client,
		key:    key,
		ttl:    ttl,
	}
}

// TryAcquire implements sync.SyncLock. A held lease maps to
// integration.ErrSyncInProgress; a Redis failure maps to
// integration.ErrSyncUnavailable because without the lock's verdict no
// safe pass can start.
func (l *RedisSyncLock) TryAcquire(ctx context.Context) (func(), error) {
	token := uuid.New().String()

	acquired, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: sync lock: %v", integration.ErrSyncUnavailable, err)
	}
	if !acquired {
		return nil, integration.ErrSyncInProgress
	}

	release := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		// Best effort: a failed release is healed by the TTL.
		_ = releaseScript.Run(ctx, l.client, []string{l.key}, token).Err()
	}
	return release, nil
}

// Close closes the Redis client
func (l *RedisSyncLock) Close() error {
	return l.client.Close()
}

var _ sync.SyncLock = (*RedisSyncLock)(nil)
