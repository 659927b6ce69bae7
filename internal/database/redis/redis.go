package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ndanilin/golinks/internal/database"
)

// KV adapts a Redis client to the database.KV contract.
type KV struct {
	client *redis.Client
}

// New connects to Redis and verifies the connection with a ping.
func New(ctx context.Context, addr, password string, db int) (*KV, error) {
	const op = "database.redis.New"

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: failed to connect to redis: %w", op, err)
	}

	return &KV{client: client}, nil
}

// NewFromClient wraps an existing client. Used by tests.
func NewFromClient(client *redis.Client) *KV {
	return &KV{client: client}
}

func (kv *KV) Get(ctx context.Context, key string) (string, error) {
	const op = "database.redis.KV.Get"

	val, err := kv.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", fmt.Errorf("%s: %w", op, database.ErrKeyNotFound)
		}

		return "", fmt.Errorf("%s: failed to get key: %w", op, err)
	}

	return val, nil
}

func (kv *KV) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	const op = "database.redis.KV.Set"

	if err := kv.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("%s: failed to set key: %w", op, err)
	}

	return nil
}

func (kv *KV) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	const op = "database.redis.KV.SetNX"

	ok, err := kv.client.SetNX(ctx, key, value, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("%s: failed to set key: %w", op, err)
	}

	return ok, nil
}

func (kv *KV) Incr(ctx context.Context, key string) (int64, error) {
	const op = "database.redis.KV.Incr"

	n, err := kv.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("%s: failed to increment key: %w", op, err)
	}

	return n, nil
}

func (kv *KV) Expire(ctx context.Context, key string, ttl time.Duration) error {
	const op = "database.redis.KV.Expire"

	if err := kv.client.Expire(ctx, key, ttl).Err(); err != nil {
		return fmt.Errorf("%s: failed to expire key: %w", op, err)
	}

	return nil
}

func (kv *KV) Del(ctx context.Context, key string) error {
	const op = "database.redis.KV.Del"

	if err := kv.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("%s: failed to delete key: %w", op, err)
	}

	return nil
}

func (kv *KV) Keys(ctx context.Context, pattern string) ([]string, error) {
	const op = "database.redis.KV.Keys"

	keys, err := kv.client.Keys(ctx, pattern).Result()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list keys: %w", op, err)
	}

	return keys, nil
}

// Close releases the underlying client.
func (kv *KV) Close() error {
	return kv.client.Close()
}
