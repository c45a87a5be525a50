// Package cache is a content-addressed store of successful model results.
// Each entry is a standalone JSON file named by the SHA-256 digest of the
// request that produced it. Entries are never expired or evicted; bounding
// the directory is an operator concern, not a code path. Concurrent
// processes racing on the same key may interleave reads and writes
// non-atomically; single-writer-per-key is assumed, not enforced.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Key computes the content address of a request: the SHA-256 digest of its
// canonical JSON serialization, as a 64-character lowercase hex string.
// encoding/json sorts map keys at every nesting level, so equal requests
// hash equally regardless of key insertion order, and any value change
// produces a different key.
func Key(request map[string]any) (string, error) {
	canonical, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("canonicalize request: %w", err)
	}

	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// Cache reads and writes entries under a single directory. The zero value
// is not usable; construct with New.
type Cache struct {
	dir string
}

func New(dir string) *Cache {
	return &Cache{dir: dir}
}

// Lookup reads the entry addressed by key into entry.
// A missing entry is not an error: it reports (false, nil).
func (c *Cache) Lookup(key string, entry any) (bool, error) {
	data, err := os.ReadFile(c.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read cache entry: %w", err)
	}

	if err := json.Unmarshal(data, entry); err != nil {
		return false, fmt.Errorf("parse cache entry %s: %w", key, err)
	}
	return true, nil
}

// Store writes the entry addressed by key, creating the cache directory on
// first use. Overwriting an existing key is permitted; callers must not
// rely on a key never being rewritten.
func (c *Cache) Store(key string, entry any) error {
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	if err := os.WriteFile(c.path(key), data, 0o644); err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, key+".json")
}
