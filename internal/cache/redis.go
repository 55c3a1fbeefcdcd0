package cache

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix = "profilectl:profile:"
	redisIndexKey  = "profilectl:profiles"
)

// RedisConfig holds the redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	UseTLS   bool
}

// RedisStore keeps gzip-compressed values in redis with a TTL. A sorted set
// of write timestamps backs Prune and Clear.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore connects lazily to the configured redis server.
func NewRedisStore(cfg RedisConfig, ttl time.Duration) *RedisStore {
	opts := &redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if cfg.UseTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return NewRedisStoreFromClient(redis.NewClient(opts), ttl)
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl, now: time.Now}
}

func redisKey(key string) string { return redisKeyPrefix + key }

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := s.client.Get(ctx, redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	data, err := decompress(val)
	if err != nil {
		return nil, false, fmt.Errorf("failed to decompress: %w", err)
	}
	if data == nil {
		return nil, false, nil
	}
	return data, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	compressed, err := compress(value)
	if err != nil {
		return fmt.Errorf("failed to compress: %w", err)
	}

	k := redisKey(key)
	if err := s.client.Set(ctx, k, compressed, s.ttl).Err(); err != nil {
		return err
	}
	return s.client.ZAdd(ctx, redisIndexKey, redis.Z{
		Score:  float64(s.now().Unix()),
		Member: k,
	}).Err()
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	k := redisKey(key)
	if err := s.client.Del(ctx, k).Err(); err != nil {
		return err
	}
	return s.client.ZRem(ctx, redisIndexKey, k).Err()
}

func (s *RedisStore) Prune(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoff := s.now().Add(-olderThan).Unix()

	keys, err := s.client.ZRangeByScore(ctx, redisIndexKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: fmt.Sprintf("%d", cutoff),
	}).Result()
	if err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}
	if err := s.removeKeys(ctx, keys); err != nil {
		return 0, err
	}
	return len(keys), nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	keys, err := s.client.ZRange(ctx, redisIndexKey, 0, -1).Result()
	if err != nil {
		return err
	}
	if len(keys) > 0 {
		if err := s.client.Del(ctx, keys...).Err(); err != nil {
			return err
		}
	}
	return s.client.Del(ctx, redisIndexKey).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) removeKeys(ctx context.Context, keys []string) error {
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return err
	}
	members := make([]any, len(keys))
	for i, k := range keys {
		members[i] = k
	}
	return s.client.ZRem(ctx, redisIndexKey, members...).Err()
}

func compress(data []byte) ([]byte, error) {
	var b bytes.Buffer
	w := gzip.NewWriter(&b)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()
	return io.ReadAll(r)
}
