package usecase

import (
	"context"
	"time"

	"github.com/allisson/llm-config/internal/cache"
	configsDomain "github.com/allisson/llm-config/internal/configs/domain"
	"github.com/allisson/llm-config/internal/metrics"
)

// configUseCaseWithMetrics decorates ConfigUseCase with metrics instrumentation.
type configUseCaseWithMetrics struct {
	next    ConfigUseCase
	metrics metrics.BusinessMetrics
}

// NewConfigUseCaseWithMetrics wraps a ConfigUseCase with metrics recording.
func NewConfigUseCaseWithMetrics(useCase ConfigUseCase, m metrics.BusinessMetrics) ConfigUseCase {
	return &configUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (c *configUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "configs", operation, status)
	c.metrics.RecordDuration(ctx, "configs", operation, time.Since(start), status)
}

// Set records metrics for configuration writes.
func (c *configUseCaseWithMetrics) Set(ctx context.Context, namespace, key string, value configsDomain.Value, environment configsDomain.Environment, updatedBy string) (*configsDomain.Entry, error) {
	start := time.Now()
	entry, err := c.next.Set(ctx, namespace, key, value, environment, updatedBy)
	c.record(ctx, "config_set", start, err)
	return entry, err
}

// SetSecret records metrics for secret writes.
func (c *configUseCaseWithMetrics) SetSecret(ctx context.Context, namespace, key string, plaintext []byte, environment configsDomain.Environment, updatedBy string) (*configsDomain.Entry, error) {
	start := time.Now()
	entry, err := c.next.SetSecret(ctx, namespace, key, plaintext, environment, updatedBy)
	c.record(ctx, "config_set_secret", start, err)
	return entry, err
}

// Get records metrics for configuration reads.
func (c *configUseCaseWithMetrics) Get(ctx context.Context, namespace, key string, environment configsDomain.Environment) (*configsDomain.Entry, error) {
	start := time.Now()
	entry, err := c.next.Get(ctx, namespace, key, environment)
	c.record(ctx, "config_get", start, err)
	return entry, err
}

// GetSecret records metrics for raw secret reads.
func (c *configUseCaseWithMetrics) GetSecret(ctx context.Context, namespace, key string, environment configsDomain.Environment) ([]byte, error) {
	start := time.Now()
	plaintext, err := c.next.GetSecret(ctx, namespace, key, environment)
	c.record(ctx, "config_get_secret", start, err)
	return plaintext, err
}

// GetWithOverrides records metrics for override-chain resolution.
func (c *configUseCaseWithMetrics) GetWithOverrides(ctx context.Context, namespace, key string, environment configsDomain.Environment) (*configsDomain.Entry, error) {
	start := time.Now()
	entry, err := c.next.GetWithOverrides(ctx, namespace, key, environment)
	c.record(ctx, "config_get_with_overrides", start, err)
	return entry, err
}

// List records metrics for namespace listings.
func (c *configUseCaseWithMetrics) List(ctx context.Context, namespace string, environment configsDomain.Environment) ([]string, error) {
	start := time.Now()
	keys, err := c.next.List(ctx, namespace, environment)
	c.record(ctx, "config_list", start, err)
	return keys, err
}

// ListEntries records metrics for namespace entry listings.
func (c *configUseCaseWithMetrics) ListEntries(ctx context.Context, namespace string, environment configsDomain.Environment) ([]configsDomain.Entry, error) {
	start := time.Now()
	entries, err := c.next.ListEntries(ctx, namespace, environment)
	c.record(ctx, "config_list_entries", start, err)
	return entries, err
}

// Delete records metrics for configuration deletions.
func (c *configUseCaseWithMetrics) Delete(ctx context.Context, namespace, key string, environment configsDomain.Environment) error {
	start := time.Now()
	err := c.next.Delete(ctx, namespace, key, environment)
	c.record(ctx, "config_delete", start, err)
	return err
}

// GetHistory records metrics for history reads.
func (c *configUseCaseWithMetrics) GetHistory(ctx context.Context, namespace, key string, environment configsDomain.Environment) ([]configsDomain.Version, error) {
	start := time.Now()
	versions, err := c.next.GetHistory(ctx, namespace, key, environment)
	c.record(ctx, "config_history", start, err)
	return versions, err
}

// Rollback records metrics for rollbacks.
func (c *configUseCaseWithMetrics) Rollback(ctx context.Context, namespace, key string, environment configsDomain.Environment, targetVersion uint64, performedBy string) (*configsDomain.Entry, error) {
	start := time.Now()
	entry, err := c.next.Rollback(ctx, namespace, key, environment, targetVersion, performedBy)
	c.record(ctx, "config_rollback", start, err)
	return entry, err
}

// Export records metrics for exports.
func (c *configUseCaseWithMetrics) Export(ctx context.Context, destDir string) (int, error) {
	start := time.Now()
	count, err := c.next.Export(ctx, destDir)
	c.record(ctx, "config_export", start, err)
	return count, err
}

// CacheStats passes through without instrumentation.
func (c *configUseCaseWithMetrics) CacheStats() (cache.Stats, int) {
	return c.next.CacheStats()
}
