package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

const redeemedKeyPrefix = "confirmation:redeemed:"

// RedemptionStore remembers which confirmation codes were already exchanged.
// MarkRedeemed returns false when the code had been marked before.
type RedemptionStore interface {
	MarkRedeemed(ctx context.Context, code string, ttl time.Duration) (bool, error)
}

type redisRedemptionStore struct {
	client *redis.Client
}

// NewRedisRedemptionStore connects to the redis instance at redisURL
// (redis://[:password@]host:port/db) and verifies the connection.
func NewRedisRedemptionStore(redisURL string) (RedemptionStore, func() error, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRedemptionStore{client: rdb}, rdb.Close, nil
}

func (s *redisRedemptionStore) MarkRedeemed(ctx context.Context, code string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, redeemedKeyPrefix+code, 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("mark code redeemed: %w", err)
	}
	return ok, nil
}

type memoryRedemptionStore struct {
	cache *cache.Cache
}

// NewMemoryRedemptionStore keeps redemption markers in process. Only suitable
// for a single API instance.
func NewMemoryRedemptionStore() RedemptionStore {
	return &memoryRedemptionStore{cache: cache.New(cache.NoExpiration, 10*time.Minute)}
}

func (s *memoryRedemptionStore) MarkRedeemed(_ context.Context, code string, ttl time.Duration) (bool, error) {
	// Add fails if the key is present and not yet expired
	if err := s.cache.Add(redeemedKeyPrefix+code, struct{}{}, ttl); err != nil {
		return false, nil
	}
	return true, nil
}
