package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type fileEntry struct {
	Key      string    `json:"key"`
	CachedAt time.Time `json:"cached_at"`
	Value    []byte    `json:"value"`
}

// FileStore keeps one JSON file per key in a directory.
type FileStore struct {
	dir string
	ttl time.Duration
	now func() time.Time
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a FileStore in dir. The directory is created on the
// first write.
func NewFileStore(dir string, ttl time.Duration) *FileStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &FileStore{dir: dir, ttl: ttl, now: time.Now}
}

// Dir returns the directory holding the cache files.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) path(key string) string {
	sum := sha1.Sum([]byte(key))
	return filepath.Join(s.dir, hex.EncodeToString(sum[:])+".json")
}

// Get loads the value for key. Unreadable or expired files are misses.
func (s *FileStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	e, err := readEntry(s.path(key))
	if err != nil {
		return nil, false, nil
	}
	if e.Key != key || s.now().Sub(e.CachedAt) > s.ttl {
		return nil, false, nil
	}
	return e.Value, true, nil
}

// Set writes value under key. The write goes to a temp file that is renamed
// into place.
func (s *FileStore) Set(_ context.Context, key string, value []byte) error {
	data, err := json.Marshal(fileEntry{Key: key, CachedAt: s.now(), Value: value})
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}

	path := s.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

// Delete removes key. Deleting an absent key is not an error.
func (s *FileStore) Delete(_ context.Context, key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Prune removes entries written more than olderThan ago, plus unreadable ones.
func (s *FileStore) Prune(_ context.Context, olderThan time.Duration) (int, error) {
	cutoff := s.now().Add(-olderThan)
	removed := 0
	err := s.walk(func(path string) error {
		e, err := readEntry(path)
		if err == nil && !e.CachedAt.Before(cutoff) {
			return nil
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		removed++
		return nil
	})
	return removed, err
}

// Clear removes every cache file in the directory. Files that do not follow
// the cache naming scheme are left alone.
func (s *FileStore) Clear(_ context.Context) error {
	return s.walk(func(path string) error {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return nil
	})
}

// Close is a no-op.
func (s *FileStore) Close() error { return nil }

func (s *FileStore) walk(fn func(path string) error) error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	for _, e := range entries {
		if e.IsDir() || !isCacheFilename(e.Name()) {
			continue
		}
		if err := fn(filepath.Join(s.dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

func readEntry(path string) (fileEntry, error) {
	var e fileEntry
	data, err := os.ReadFile(path)
	if err != nil {
		return e, err
	}
	err = json.Unmarshal(data, &e)
	return e, err
}

// isCacheFilename matches "<40 hex>.json".
func isCacheFilename(name string) bool {
	if filepath.Ext(name) != ".json" {
		return false
	}
	base := strings.TrimSuffix(name, ".json")
	if len(base) != sha1.Size*2 {
		return false
	}
	_, err := hex.DecodeString(base)
	return err == nil
}
