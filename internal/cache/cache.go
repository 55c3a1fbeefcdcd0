// Package cache stores encoded profiles between invocations so repeated
// lookups can skip the server.
//
// Two backends exist: one JSON file per key under the user cache directory,
// and redis. Entries expire after a TTL (default 5 minutes). Caching is off
// unless a backend is selected.
package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const DefaultTTL = 5 * time.Minute

const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
)

// Backends lists the accepted backend names.
var Backends = []string{BackendNone, BackendFile, BackendRedis}

// Store is a key/value cache with expiry.
type Store interface {
	// Get returns the value for key. A miss (absent or expired) is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// Prune removes entries written more than olderThan ago and returns how
	// many were removed.
	Prune(ctx context.Context, olderThan time.Duration) (int, error)
	// Clear removes every entry owned by this store.
	Clear(ctx context.Context) error
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Backend string
	TTL     time.Duration
	Dir     string // file backend; DefaultDir when empty
	Redis   RedisConfig
}

// ParseBackend normalizes a backend name. Empty means none.
func ParseBackend(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", BackendNone, "off", "false", "0":
		return BackendNone, nil
	case BackendFile, "disk":
		return BackendFile, nil
	case BackendRedis:
		return BackendRedis, nil
	}
	return "", fmt.Errorf("invalid cache backend %q: must be one of %s", s, strings.Join(Backends, ", "))
}

// Open returns the store for opts, or nil when caching is disabled.
func Open(opts Options) (Store, error) {
	backend, err := ParseBackend(opts.Backend)
	if err != nil {
		return nil, err
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	switch backend {
	case BackendFile:
		dir := opts.Dir
		if dir == "" {
			dir, err = DefaultDir()
			if err != nil {
				return nil, fmt.Errorf("resolve cache directory: %w", err)
			}
		}
		return NewFileStore(dir, ttl), nil
	case BackendRedis:
		if strings.TrimSpace(opts.Redis.Addr) == "" {
			return nil, fmt.Errorf("redis cache requires an address (cache.redis.addr or PROFILECTL_REDIS_ADDR)")
		}
		return NewRedisStore(opts.Redis, ttl), nil
	default:
		return nil, nil
	}
}

// DefaultDir returns "$XDG_CACHE_HOME/profilectl" or the platform equivalent.
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "profilectl"), nil
}
