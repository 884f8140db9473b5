package usecase

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	auditDomain "github.com/allisson/llm-config/internal/audit/domain"
	"github.com/allisson/llm-config/internal/audit/repository"
	configsDomain "github.com/allisson/llm-config/internal/configs/domain"
	apperrors "github.com/allisson/llm-config/internal/errors"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

func newTestUseCase(t *testing.T) AuditUseCase {
	t.Helper()

	repo, err := repository.NewFileAuditRepository(filepath.Join(t.TempDir(), "audit.log"), testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	u := NewAuditUseCase(repo, testLogger())
	t.Cleanup(func() { u.Close() })
	return u
}

func TestAuditUseCase_LogAndQuery(t *testing.T) {
	u := newTestUseCase(t)
	ctx := context.Background()

	u.Log(auditDomain.NewConfigCreated("app", "timeout", configsDomain.EnvBase, "alice"))
	u.Log(auditDomain.NewSecretAccessed("app", "api_key", configsDomain.EnvProduction, "bob"))

	// The writer is asynchronous; wait for both events to land.
	require.Eventually(t, func() bool {
		count, err := u.Count(ctx)
		return err == nil && count == 2
	}, 2*time.Second, 10*time.Millisecond)

	events, err := u.QueryByUser(ctx, "bob", 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, auditDomain.EventSecretAccessed, events[0].Type)

	events, err = u.Query(ctx, time.Now().Add(-time.Minute), time.Now().Add(time.Minute), 1)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestAuditUseCase_CloseDrainsQueue(t *testing.T) {
	repo, err := repository.NewFileAuditRepository(filepath.Join(t.TempDir(), "audit.log"), testLogger())
	require.NoError(t, err)
	defer repo.Close()

	u := NewAuditUseCase(repo, testLogger())

	const total = 200
	for i := 0; i < total; i++ {
		u.Log(auditDomain.NewSystemEvent("test", "event"))
	}
	require.NoError(t, u.Close())

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, total, count)
}

func TestAuditUseCase_LogAfterCloseIsDropped(t *testing.T) {
	repo, err := repository.NewFileAuditRepository(filepath.Join(t.TempDir(), "audit.log"), testLogger())
	require.NoError(t, err)
	defer repo.Close()

	u := NewAuditUseCase(repo, testLogger())
	require.NoError(t, u.Close())

	u.Log(auditDomain.NewSystemEvent("test", "late event"))

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestAuditUseCase_ConcurrentProducers(t *testing.T) {
	repo, err := repository.NewFileAuditRepository(filepath.Join(t.TempDir(), "audit.log"), testLogger())
	require.NoError(t, err)
	defer repo.Close()

	u := NewAuditUseCase(repo, testLogger())

	const producers = 8
	const perProducer = 50

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				u.Log(auditDomain.NewSystemEvent("producer", "event"))
			}
		}()
	}
	wg.Wait()
	require.NoError(t, u.Close())

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, producers*perProducer, count)
}

// failingRepository always errors on Append.
type failingRepository struct{}

func (f *failingRepository) Append(context.Context, *auditDomain.Event) error {
	return apperrors.New("disk full")
}

func (f *failingRepository) Query(context.Context, time.Time, time.Time, int) ([]auditDomain.Event, error) {
	return nil, nil
}

func (f *failingRepository) QueryByUser(context.Context, string, int) ([]auditDomain.Event, error) {
	return nil, nil
}

func (f *failingRepository) Count(context.Context) (int, error) {
	return 0, nil
}

func TestAuditUseCase_WriteFailuresDoNotBlockClose(t *testing.T) {
	u := NewAuditUseCase(&failingRepository{}, testLogger())
	u.Log(auditDomain.NewSystemEvent("test", "event"))
	assert.NoError(t, u.Close())
}
