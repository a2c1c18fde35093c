package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds configuration for a Redis-backed adapter.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	// Namespace is the hash key holding all entries. Default: "thinkact:transcripts".
	Namespace string
}

// RedisAdapter stores entries as fields of a single Redis hash, so Clear and
// Save touch only this adapter's namespace.
type RedisAdapter struct {
	rdb       redis.UniversalClient
	namespace string
}

var _ Adapter = (*RedisAdapter)(nil)

// NewRedisAdapter wraps an existing client.
func NewRedisAdapter(rdb redis.UniversalClient, namespace string) *RedisAdapter {
	if namespace == "" {
		namespace = "thinkact:transcripts"
	}
	return &RedisAdapter{rdb: rdb, namespace: namespace}
}

// DialRedis connects to Redis and validates the connection.
func DialRedis(ctx context.Context, cfg RedisConfig) (*RedisAdapter, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("store: redis ping failed: %w", err)
	}
	return NewRedisAdapter(rdb, cfg.Namespace), nil
}

// Close closes the underlying client.
func (r *RedisAdapter) Close() error {
	return r.rdb.Close()
}

// Get retrieves a value by key.
func (r *RedisAdapter) Get(ctx context.Context, key string) (json.RawMessage, bool, error) {
	v, err := r.rdb.HGet(ctx, r.namespace, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("store: hget %q: %w", key, err)
	}
	return json.RawMessage(v), true, nil
}

// Set stores a value by key.
func (r *RedisAdapter) Set(ctx context.Context, key string, value json.RawMessage) error {
	if err := r.rdb.HSet(ctx, r.namespace, key, []byte(value)).Err(); err != nil {
		return fmt.Errorf("store: hset %q: %w", key, err)
	}
	return nil
}

// Delete removes a key.
func (r *RedisAdapter) Delete(ctx context.Context, key string) error {
	return r.rdb.HDel(ctx, r.namespace, key).Err()
}

// Has returns true if the key exists.
func (r *RedisAdapter) Has(ctx context.Context, key string) (bool, error) {
	return r.rdb.HExists(ctx, r.namespace, key).Result()
}

// Keys returns all keys.
func (r *RedisAdapter) Keys(ctx context.Context) ([]string, error) {
	return r.rdb.HKeys(ctx, r.namespace).Result()
}

// Len returns the number of stored keys.
func (r *RedisAdapter) Len(ctx context.Context) (int, error) {
	n, err := r.rdb.HLen(ctx, r.namespace).Result()
	return int(n), err
}

// Clear removes all data in the namespace.
func (r *RedisAdapter) Clear(ctx context.Context) error {
	return r.rdb.Del(ctx, r.namespace).Err()
}

// Load retrieves all data as a map.
func (r *RedisAdapter) Load(ctx context.Context) (map[string]json.RawMessage, error) {
	all, err := r.rdb.HGetAll(ctx, r.namespace).Result()
	if err != nil {
		return nil, fmt.Errorf("store: hgetall: %w", err)
	}
	result := make(map[string]json.RawMessage, len(all))
	for k, v := range all {
		result[k] = json.RawMessage(v)
	}
	return result, nil
}

// Save stores all data from a map, replacing existing data in one transaction.
func (r *RedisAdapter) Save(ctx context.Context, data map[string]json.RawMessage) error {
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.namespace)
		if len(data) == 0 {
			return nil
		}
		fields := make(map[string]any, len(data))
		for k, v := range data {
			fields[k] = []byte(v)
		}
		pipe.HSet(ctx, r.namespace, fields)
		return nil
	})
	if err != nil {
		return fmt.Errorf("store: save: %w", err)
	}
	return nil
}
