package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"luna_assistant/internal/logger"
	"luna_assistant/internal/model"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "luna:"

// RedisRepository stores sessions in Redis under keys scoped to one process
// instance, so state is never shared with or inherited by another run.
type RedisRepository struct {
	client   *redis.Client
	ttl      time.Duration
	instance string
}

// NewRedisRepository connects to redisURL and checks the connection
func NewRedisRepository(ctx context.Context, redisURL string, ttl time.Duration, instance string) (*RedisRepository, error) {
	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required for the redis session store")
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse REDIS_URL: %w", err)
	}

	client := redis.NewClient(opts)

	// Test connection
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisRepositoryWithClient(client, ttl, instance), nil
}

// NewRedisRepositoryWithClient wraps an existing client
func NewRedisRepositoryWithClient(client *redis.Client, ttl time.Duration, instance string) *RedisRepository {
	return &RedisRepository{client: client, ttl: ttl, instance: instance}
}

func (r *RedisRepository) prefix() string {
	return keyPrefix + r.instance + ":session:"
}

// key generates a Redis key for the given session ID
func (r *RedisRepository) key(id string) string {
	return r.prefix() + id
}

// Load reads the session and extends its TTL
func (r *RedisRepository) Load(ctx context.Context, id string) (*State, error) {
	data, err := r.client.GetEx(ctx, r.key(id), r.ttl).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", model.ErrSessionNotFound, id)
		}
		return nil, fmt.Errorf("failed to GETEX session: %w", err)
	}
	return decodeState(data)
}

func (r *RedisRepository) Save(ctx context.Context, state *State) error {
	data, err := encodeState(state)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key(state.ID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set session data: %w", err)
	}
	return nil
}

func (r *RedisRepository) Delete(ctx context.Context, id string) error {
	n, err := r.client.Del(ctx, r.key(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", model.ErrSessionNotFound, id)
	}
	return nil
}

func (r *RedisRepository) Count(ctx context.Context) (int, error) {
	keys, err := r.keys(ctx)
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}

// Close purges this instance's sessions and closes the connection
func (r *RedisRepository) Close(ctx context.Context) error {
	keys, err := r.keys(ctx)
	if err == nil && len(keys) > 0 {
		err = r.client.Del(ctx, keys...).Err()
	}
	if err != nil {
		logger.Warn().Err(err).Str("instance", r.instance).Msg("failed to purge sessions")
	} else {
		logger.Info().Int("purged", len(keys)).Str("instance", r.instance).Msg("sessions purged")
	}
	return errors.Join(err, r.client.Close())
}

// Ping tests the Redis connection; it backs the readiness check
func (r *RedisRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisRepository) keys(ctx context.Context) ([]string, error) {
	var keys []string
	iter := r.client.Scan(ctx, 0, r.prefix()+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan sessions: %w", err)
	}
	return keys, nil
}
