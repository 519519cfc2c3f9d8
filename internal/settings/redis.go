package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "calc3d:settings:"

// RedisStore keeps each record as a JSON envelope under its own redis key.
type RedisStore struct {
	client *redis.Client
}

type redisEnvelope struct {
	SchemaVersion int             `json:"schemaVersion"`
	Payload       json.RawMessage `json:"payload"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// NewRedisStore creates a client for addr. Call Close when done.
func NewRedisStore(addr, password string, db int) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

// Ping checks that the server is reachable.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	return nil
}

// Close closes the redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Get implements Store.
func (s *RedisStore) Get(ctx context.Context, key string) (Record, error) {
	data, err := s.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("get settings %s: %w", key, err)
	}

	var env redisEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Record{}, fmt.Errorf("decode settings envelope %s: %w", key, err)
	}

	return Record{
		Key:           key,
		SchemaVersion: env.SchemaVersion,
		Payload:       []byte(env.Payload),
		UpdatedAt:     env.UpdatedAt,
	}, nil
}

// Put implements Store. Records do not expire.
func (s *RedisStore) Put(ctx context.Context, rec Record) error {
	data, err := json.Marshal(redisEnvelope{
		SchemaVersion: rec.SchemaVersion,
		Payload:       json.RawMessage(rec.Payload),
		UpdatedAt:     rec.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("encode settings envelope %s: %w", rec.Key, err)
	}

	if err := s.client.Set(ctx, redisKeyPrefix+rec.Key, data, 0).Err(); err != nil {
		return fmt.Errorf("set settings %s: %w", rec.Key, err)
	}
	return nil
}
