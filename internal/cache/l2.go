package cache

import (
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	configsDomain "github.com/allisson/llm-config/internal/configs/domain"
	apperrors "github.com/allisson/llm-config/internal/errors"
)

const cacheExt = ".cache"

// L2 is a file-based cache tier. Each entry is stored as one JSON file
// named with the hex encoding of its fingerprint, so arbitrary fingerprint
// characters never leak into file names. Writes go through a temporary file
// plus rename, and an in-memory index keeps reads off the directory.
//
// On startup the index is rebuilt from disk; files that no longer parse are
// dropped from the index but left on disk for inspection.
type L2 struct {
	dir    string
	logger *slog.Logger

	mu    sync.RWMutex
	index map[string]string // fingerprint -> file path
}

// NewL2 creates the cache directory if needed and rebuilds the index from
// any surviving cache files.
func NewL2(dir string, logger *slog.Logger) (*L2, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, apperrors.Wrap(err, "failed to create cache directory")
	}

	c := &L2{
		dir:    dir,
		logger: logger,
		index:  make(map[string]string),
	}
	if err := c.rebuildIndex(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *L2) rebuildIndex() error {
	files, err := os.ReadDir(c.dir)
	if err != nil {
		return apperrors.Wrap(err, "failed to read cache directory")
	}

	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), cacheExt) {
			continue
		}
		path := filepath.Join(c.dir, file.Name())

		fingerprint, err := hex.DecodeString(strings.TrimSuffix(file.Name(), cacheExt))
		if err != nil {
			c.logger.Warn("skipping cache file with invalid name", slog.String("path", path))
			continue
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			c.logger.Warn("skipping unreadable cache file", slog.String("path", path), slog.Any("error", err))
			continue
		}

		var entry configsDomain.Entry
		if err := json.Unmarshal(raw, &entry); err != nil {
			c.logger.Warn("skipping corrupt cache file", slog.String("path", path), slog.Any("error", err))
			continue
		}

		c.index[string(fingerprint)] = path
	}
	return nil
}

func (c *L2) path(fingerprint string) string {
	return filepath.Join(c.dir, hex.EncodeToString([]byte(fingerprint))+cacheExt)
}

// Get loads the cached entry for fingerprint, if present.
func (c *L2) Get(fingerprint string) (*configsDomain.Entry, bool) {
	c.mu.RLock()
	path, ok := c.index[fingerprint]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var entry configsDomain.Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		c.logger.Warn("dropping corrupt cache file", slog.String("path", path), slog.Any("error", err))
		c.mu.Lock()
		delete(c.index, fingerprint)
		c.mu.Unlock()
		return nil, false
	}
	return &entry, true
}

// Put persists an entry to the cache directory.
func (c *L2) Put(fingerprint string, entry configsDomain.Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal cache entry")
	}

	path := c.path(fingerprint)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return apperrors.Wrap(err, "failed to write cache file")
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return apperrors.Wrap(err, "failed to rename cache file")
	}

	c.mu.Lock()
	c.index[fingerprint] = path
	c.mu.Unlock()
	return nil
}

// Invalidate removes one fingerprint from disk and the index.
func (c *L2) Invalidate(fingerprint string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if path, ok := c.index[fingerprint]; ok {
		os.Remove(path)
		delete(c.index, fingerprint)
	}
}

// Clear removes every indexed cache file.
func (c *L2) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, path := range c.index {
		os.Remove(path)
	}
	c.index = make(map[string]string)
}

// Size returns the number of indexed entries.
func (c *L2) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.index)
}
