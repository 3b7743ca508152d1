package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultPrefix — префикс ключей Redis по умолчанию.
const DefaultPrefix = "gallery:profile:"

// RedisStore хранит записи как Redis Hash с полями body (JSON профиля) и at (unix nano).
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisStore создаёт клиент Redis из URL (например, redis://:pass@host:6379/0).
// Если prefix пустой — используется DefaultPrefix.
func NewRedisStore(ctx context.Context, redisURL, prefix string) (*RedisStore, error) {
	const op = "cache.NewRedisStore"

	if prefix == "" {
		prefix = DefaultPrefix
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rdb := redis.NewClient(opt)

	// Fail-fast на старте.
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%s: ping: %w", op, err)
	}

	return &RedisStore{rdb: rdb, prefix: prefix}, nil
}

func (s *RedisStore) key(k string) string { return s.prefix + k }

func (s *RedisStore) Get(ctx context.Context, key string) (*Entry, bool, error) {
	m, err := s.rdb.HGetAll(ctx, s.key(key)).Result()
	if err != nil {
		return nil, false, err
	}

	if len(m) == 0 {
		return nil, false, nil
	}

	at, err := strconv.ParseInt(m["at"], 10, 64)
	if err != nil {
		return nil, false, fmt.Errorf("cache: bad stored_at for %q: %w", key, err)
	}

	return &Entry{
		Body:     []byte(m["body"]),
		StoredAt: time.Unix(0, at).UTC(),
	}, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, e *Entry, ttl time.Duration) error {
	kv := map[string]any{
		"body": e.Body,
		"at":   strconv.FormatInt(e.StoredAt.UnixNano(), 10),
	}

	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, s.key(key), kv)
	pipe.Expire(ctx, s.key(key), ttl)

	_, err := pipe.Exec(ctx)
	return err
}

// Ping — проверка доступности для health-эндпоинтов.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *RedisStore) Close() error { return s.rdb.Close() }
