package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/investbank/pipeline-client/internal/core/domain"
)

const defaultTimeout = 5 * time.Second

// RedisConfig captures the settings for establishing a Redis connection.
type RedisConfig struct {
	Addr    string
	DB      int
	Timeout time.Duration
}

// Connect initialises a Redis client and validates connectivity with a ping.
// A default timeout is applied when none is provided.
func Connect(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}

// RedisStorage keeps the session slots in Redis, for deployments where the
// workstation running the client has no writable home directory (shared
// terminals, containers). Keys are namespaced per installation.
type RedisStorage struct {
	client    *redis.Client
	namespace string
}

// NewRedisStorage wraps an established Redis client. namespace isolates
// multiple installations sharing one Redis instance.
func NewRedisStorage(client *redis.Client, namespace string) *RedisStorage {
	if namespace == "" {
		namespace = "pipeline"
	}
	return &RedisStorage{client: client, namespace: namespace}
}

func (r *RedisStorage) tokenKey() string    { return r.namespace + ":auth_token" }
func (r *RedisStorage) identityKey() string { return r.namespace + ":current_user" }

func (r *RedisStorage) Save(ctx context.Context, token string, identity *domain.Identity) error {
	payload, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}

	// Both slots in one transaction so they change together.
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.tokenKey(), token, 0)
		pipe.Set(ctx, r.identityKey(), payload, 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save session slots: %w", err)
	}
	return nil
}

func (r *RedisStorage) Load(ctx context.Context) (string, *domain.Identity, error) {
	token, err := r.client.Get(ctx, r.tokenKey()).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil, nil
	}
	if err != nil {
		return "", nil, fmt.Errorf("load token slot: %w", err)
	}
	if token == "" {
		return "", nil, nil
	}

	payload, err := r.client.Get(ctx, r.identityKey()).Bytes()
	if errors.Is(err, redis.Nil) {
		return token, nil, nil
	}
	if err != nil {
		return "", nil, fmt.Errorf("load identity slot: %w", err)
	}

	var identity domain.Identity
	if err := json.Unmarshal(payload, &identity); err != nil {
		return "", nil, fmt.Errorf("decode identity: %w", err)
	}
	return token, &identity, nil
}

func (r *RedisStorage) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.tokenKey(), r.identityKey()).Err(); err != nil {
		return fmt.Errorf("clear session slots: %w", err)
	}
	return nil
}
