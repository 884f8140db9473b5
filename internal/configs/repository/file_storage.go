// Package repository implements persistence for configuration entries.
// Entries and their version history are stored as JSON documents on the
// local filesystem with atomic writes and an in-memory index.
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	configsDomain "github.com/allisson/llm-config/internal/configs/domain"
	apperrors "github.com/allisson/llm-config/internal/errors"
)

const (
	configsDir  = "configs"
	versionsDir = "versions"
)

// FileStorage persists configuration entries under a root directory:
//
//	<root>/configs/<namespace>_<key>_<environment>.json   current entries
//	<root>/versions/<uuid>.json                           history records
//
// Every write lands in a temporary file that is fsynced and renamed into
// place, so readers never observe partial documents. An in-memory index
// keyed by namespace::key::environment holds the full entries, so reads
// never touch the filesystem; it is rebuilt from disk on startup, skipping
// (and logging) corrupt files.
//
// All methods are safe for concurrent use.
type FileStorage struct {
	root   string
	logger *slog.Logger

	mu    sync.RWMutex
	index map[string]configsDomain.Entry // namespace::key::environment -> entry
}

// NewFileStorage creates the directory layout under root and rebuilds the
// entry index from any existing files.
func NewFileStorage(root string, logger *slog.Logger) (*FileStorage, error) {
	for _, dir := range []string{root, filepath.Join(root, configsDir), filepath.Join(root, versionsDir)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, apperrors.Wrap(err, "failed to create storage directory")
		}
	}

	s := &FileStorage{
		root:   root,
		logger: logger,
		index:  make(map[string]configsDomain.Entry),
	}
	if err := s.rebuildIndex(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileStorage) rebuildIndex() error {
	dir := filepath.Join(s.root, configsDir)
	files, err := os.ReadDir(dir)
	if err != nil {
		return apperrors.Wrap(err, "failed to read configs directory")
	}

	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, file.Name())

		raw, err := os.ReadFile(path)
		if err != nil {
			s.logger.Warn("skipping unreadable config file", slog.String("path", path), slog.Any("error", err))
			continue
		}

		var entry configsDomain.Entry
		if err := json.Unmarshal(raw, &entry); err != nil {
			s.logger.Warn("skipping corrupt config file", slog.String("path", path), slog.Any("error", err))
			continue
		}

		s.index[indexKey(entry.Namespace, entry.Key, entry.Environment)] = entry
	}
	return nil
}

func indexKey(namespace, key string, environment configsDomain.Environment) string {
	return fmt.Sprintf("%s::%s::%s", namespace, key, environment)
}

// sanitize keeps entry file names flat: path separators inside namespaces
// and keys become underscores.
func sanitize(s string) string {
	return strings.ReplaceAll(s, "/", "_")
}

func (s *FileStorage) entryPath(namespace, key string, environment configsDomain.Environment) string {
	name := fmt.Sprintf("%s_%s_%s.json", sanitize(namespace), sanitize(key), environment)
	return filepath.Join(s.root, configsDir, name)
}

// writeAtomic writes data to a sibling .tmp file, fsyncs it and renames it
// over the destination.
func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return apperrors.Wrap(err, "failed to create temp file")
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return apperrors.Wrap(err, "failed to write temp file")
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return apperrors.Wrap(err, "failed to sync temp file")
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return apperrors.Wrap(err, "failed to close temp file")
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return apperrors.Wrap(err, "failed to rename temp file")
	}
	return nil
}

// Save writes an entry to disk and registers it in the index, replacing any
// previous state for the same namespace/key/environment. The file is written
// and renamed before the index lock is taken, so no lock is held across
// fsync or rename.
func (s *FileStorage) Save(ctx context.Context, entry *configsDomain.Entry) error {
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal entry")
	}

	path := s.entryPath(entry.Namespace, entry.Key, entry.Environment)
	if err := writeAtomic(path, data); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.index[indexKey(entry.Namespace, entry.Key, entry.Environment)] = *entry
	return nil
}

// Get returns a copy of the current entry for namespace/key in the given
// environment. Reads are served from the index and never hit the disk.
func (s *FileStorage) Get(ctx context.Context, namespace, key string, environment configsDomain.Environment) (*configsDomain.Entry, error) {
	s.mu.RLock()
	entry, ok := s.index[indexKey(namespace, key, environment)]
	s.mu.RUnlock()
	if !ok {
		return nil, configsDomain.ErrEntryNotFound
	}
	return &entry, nil
}

// Delete removes the entry file and its index record. Version history is
// left untouched.
func (s *FileStorage) Delete(ctx context.Context, namespace, key string, environment configsDomain.Environment) error {
	k := indexKey(namespace, key, environment)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[k]; !ok {
		return configsDomain.ErrEntryNotFound
	}
	path := s.entryPath(namespace, key, environment)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return apperrors.Wrap(err, "failed to remove entry")
	}
	delete(s.index, k)
	return nil
}

// List returns the sorted keys present in a namespace for one environment.
func (s *FileStorage) List(ctx context.Context, namespace string, environment configsDomain.Environment) ([]string, error) {
	prefix := namespace + "::"
	suffix := "::" + string(environment)

	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0)
	for k := range s.index {
		if strings.HasPrefix(k, prefix) && strings.HasSuffix(k, suffix) {
			keys = append(keys, strings.TrimSuffix(strings.TrimPrefix(k, prefix), suffix))
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// SaveVersion appends a history record. Records are never overwritten; each
// one gets a fresh random file name.
func (s *FileStorage) SaveVersion(ctx context.Context, version *configsDomain.Version) error {
	data, err := json.MarshalIndent(version, "", "  ")
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal version")
	}

	path := filepath.Join(s.root, versionsDir, uuid.New().String()+".json")
	return writeAtomic(path, data)
}

// GetVersions returns the history of an entry, newest version first. The
// versions directory is scanned linearly; records that fail to parse are
// skipped with a warning.
func (s *FileStorage) GetVersions(ctx context.Context, namespace, key string, environment configsDomain.Environment) ([]configsDomain.Version, error) {
	dir := filepath.Join(s.root, versionsDir)
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to read versions directory")
	}

	versions := make([]configsDomain.Version, 0)
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, file.Name())

		raw, err := os.ReadFile(path)
		if err != nil {
			s.logger.Warn("skipping unreadable version file", slog.String("path", path), slog.Any("error", err))
			continue
		}

		var version configsDomain.Version
		if err := json.Unmarshal(raw, &version); err != nil {
			s.logger.Warn("skipping corrupt version file", slog.String("path", path), slog.Any("error", err))
			continue
		}

		if version.Namespace == namespace && version.Key == key && version.Environment == environment {
			versions = append(versions, version)
		}
	}

	sort.Slice(versions, func(i, j int) bool {
		return versions[i].Version > versions[j].Version
	})
	return versions, nil
}

// ExportAll copies every current entry into destDir as
// <namespace>_<key>_<environment>_<id>.json and returns the number of
// entries written.
func (s *FileStorage) ExportAll(ctx context.Context, destDir string) (int, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return 0, apperrors.Wrap(err, "failed to create export directory")
	}

	s.mu.RLock()
	entries := make([]configsDomain.Entry, 0, len(s.index))
	for _, entry := range s.index {
		entries = append(entries, entry)
	}
	s.mu.RUnlock()

	count := 0
	for _, entry := range entries {
		data, err := json.MarshalIndent(entry, "", "  ")
		if err != nil {
			return count, apperrors.Wrap(err, "failed to marshal entry")
		}

		name := fmt.Sprintf("%s_%s_%s_%s.json", sanitize(entry.Namespace), sanitize(entry.Key), entry.Environment, entry.ID)
		if err := writeAtomic(filepath.Join(destDir, name), data); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}
