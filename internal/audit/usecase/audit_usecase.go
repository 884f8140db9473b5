// Package usecase implements asynchronous audit logging. Events are queued
// in memory and written by a single background goroutine, keeping audit
// writes off the request path.
package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	auditDomain "github.com/allisson/llm-config/internal/audit/domain"
)

// AuditRepository defines the interface for audit event persistence.
type AuditRepository interface {
	Append(ctx context.Context, event *auditDomain.Event) error
	Query(ctx context.Context, start, end time.Time, limit int) ([]auditDomain.Event, error)
	QueryByUser(ctx context.Context, user string, limit int) ([]auditDomain.Event, error)
	Count(ctx context.Context) (int, error)
}

// AuditUseCase defines the interface for recording and querying audit events.
type AuditUseCase interface {
	// Log enqueues an event for asynchronous persistence. It never blocks;
	// the queue grows as needed.
	Log(event auditDomain.Event)

	// Query returns events in the [start, end] time range, oldest first.
	Query(ctx context.Context, start, end time.Time, limit int) ([]auditDomain.Event, error)

	// QueryByUser returns events recorded for one user, oldest first.
	QueryByUser(ctx context.Context, user string, limit int) ([]auditDomain.Event, error)

	// Count returns the total number of persisted events.
	Count(ctx context.Context) (int, error)

	// Close stops intake, drains the queue and waits for the writer to
	// finish. Events logged after Close are dropped.
	Close() error
}

// auditUseCase feeds a single writer goroutine from an unbounded in-memory
// queue guarded by a condition variable, so producers never block on disk
// latency.
type auditUseCase struct {
	repository AuditRepository
	logger     *slog.Logger

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []auditDomain.Event
	closed bool
	done   chan struct{}
}

// NewAuditUseCase creates the use case and starts its writer goroutine.
func NewAuditUseCase(repository AuditRepository, logger *slog.Logger) AuditUseCase {
	u := &auditUseCase{
		repository: repository,
		logger:     logger,
		done:       make(chan struct{}),
	}
	u.cond = sync.NewCond(&u.mu)
	go u.writeLoop()
	return u
}

// Log enqueues an event. Events arriving after Close are dropped with a
// warning instead of blocking shutdown.
func (u *auditUseCase) Log(event auditDomain.Event) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.closed {
		u.logger.Warn("audit event dropped after close", slog.String("type", string(event.Type)))
		return
	}
	u.queue = append(u.queue, event)
	u.cond.Signal()
}

// writeLoop drains the queue in batches. Persistence failures are logged
// and the remaining events are still attempted; an audit write error never
// propagates to request handling.
func (u *auditUseCase) writeLoop() {
	defer close(u.done)

	for {
		u.mu.Lock()
		for len(u.queue) == 0 && !u.closed {
			u.cond.Wait()
		}
		batch := u.queue
		u.queue = nil
		closed := u.closed
		u.mu.Unlock()

		for i := range batch {
			if err := u.repository.Append(context.Background(), &batch[i]); err != nil {
				u.logger.Error("failed to persist audit event",
					slog.String("type", string(batch[i].Type)),
					slog.Any("error", err),
				)
			}
		}

		if closed && len(batch) == 0 {
			return
		}
		if closed {
			// Drain anything that raced in before closed was set.
			u.mu.Lock()
			empty := len(u.queue) == 0
			u.mu.Unlock()
			if empty {
				return
			}
		}
	}
}

// Query returns events in the [start, end] time range, oldest first.
func (u *auditUseCase) Query(ctx context.Context, start, end time.Time, limit int) ([]auditDomain.Event, error) {
	return u.repository.Query(ctx, start, end, limit)
}

// QueryByUser returns events recorded for one user, oldest first.
func (u *auditUseCase) QueryByUser(ctx context.Context, user string, limit int) ([]auditDomain.Event, error) {
	return u.repository.QueryByUser(ctx, user, limit)
}

// Count returns the total number of persisted events.
func (u *auditUseCase) Count(ctx context.Context) (int, error) {
	return u.repository.Count(ctx)
}

// Close stops intake and waits until every queued event has been written.
func (u *auditUseCase) Close() error {
	u.mu.Lock()
	if u.closed {
		u.mu.Unlock()
		<-u.done
		return nil
	}
	u.closed = true
	u.cond.Signal()
	u.mu.Unlock()

	<-u.done
	return nil
}
