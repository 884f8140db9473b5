// Package repository implements persistence for audit events as an
// append-only file of JSON lines.
package repository

import (
	"bufio"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"sync"
	"time"

	auditDomain "github.com/allisson/llm-config/internal/audit/domain"
	apperrors "github.com/allisson/llm-config/internal/errors"
)

// FileAuditRepository appends events to a single log file, one JSON object
// per line, fsyncing after every write so acknowledged events survive a
// crash. Queries scan the file front to back; lines that no longer parse
// are skipped with a warning instead of failing the whole query.
type FileAuditRepository struct {
	path   string
	logger *slog.Logger

	mu   sync.Mutex
	file *os.File
}

// NewFileAuditRepository opens (or creates) the audit log file in append
// mode.
func NewFileAuditRepository(path string, logger *slog.Logger) (*FileAuditRepository, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to open audit log")
	}
	return &FileAuditRepository{path: path, logger: logger, file: file}, nil
}

// Append writes one event to the log and syncs it to disk.
func (r *FileAuditRepository) Append(ctx context.Context, event *auditDomain.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal audit event")
	}
	data = append(data, '\n')

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.file.Write(data); err != nil {
		return apperrors.Wrap(err, "failed to append audit event")
	}
	if err := r.file.Sync(); err != nil {
		return apperrors.Wrap(err, "failed to sync audit log")
	}
	return nil
}

// scan reads the log and calls fn for each parseable event. fn returns
// false to stop early.
func (r *FileAuditRepository) scan(fn func(event auditDomain.Event) bool) error {
	file, err := os.Open(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return apperrors.Wrap(err, "failed to open audit log")
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var event auditDomain.Event
		if err := json.Unmarshal(line, &event); err != nil {
			r.logger.Warn("skipping corrupt audit log line", slog.Any("error", err))
			continue
		}
		if !fn(event) {
			break
		}
	}
	return scanner.Err()
}

// Query returns events with timestamps in [start, end], oldest first, up to
// limit. A limit of zero means no limit.
func (r *FileAuditRepository) Query(ctx context.Context, start, end time.Time, limit int) ([]auditDomain.Event, error) {
	events := make([]auditDomain.Event, 0)
	err := r.scan(func(event auditDomain.Event) bool {
		if event.Timestamp.Before(start) || event.Timestamp.After(end) {
			return true
		}
		events = append(events, event)
		return limit <= 0 || len(events) < limit
	})
	return events, err
}

// QueryByUser returns the events recorded for one user, oldest first, up to
// limit. A limit of zero means no limit.
func (r *FileAuditRepository) QueryByUser(ctx context.Context, user string, limit int) ([]auditDomain.Event, error) {
	events := make([]auditDomain.Event, 0)
	err := r.scan(func(event auditDomain.Event) bool {
		if event.User != user {
			return true
		}
		events = append(events, event)
		return limit <= 0 || len(events) < limit
	})
	return events, err
}

// Count returns the number of parseable events in the log.
func (r *FileAuditRepository) Count(ctx context.Context) (int, error) {
	count := 0
	err := r.scan(func(auditDomain.Event) bool {
		count++
		return true
	})
	return count, err
}

// Close closes the underlying log file.
func (r *FileAuditRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.file.Close()
}
