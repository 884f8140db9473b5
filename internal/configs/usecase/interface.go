// Package usecase implements the business logic of the configuration store:
// versioned writes, transparent secret encryption, environment override
// resolution, history and rollback.
package usecase

import (
	"context"

	"github.com/allisson/llm-config/internal/cache"
	configsDomain "github.com/allisson/llm-config/internal/configs/domain"
)

// ConfigRepository defines the interface for configuration persistence.
type ConfigRepository interface {
	Save(ctx context.Context, entry *configsDomain.Entry) error
	Get(ctx context.Context, namespace, key string, environment configsDomain.Environment) (*configsDomain.Entry, error)
	Delete(ctx context.Context, namespace, key string, environment configsDomain.Environment) error
	List(ctx context.Context, namespace string, environment configsDomain.Environment) ([]string, error)
	SaveVersion(ctx context.Context, version *configsDomain.Version) error
	GetVersions(ctx context.Context, namespace, key string, environment configsDomain.Environment) ([]configsDomain.Version, error)
	ExportAll(ctx context.Context, destDir string) (int, error)
}

// ConfigUseCase defines the interface for configuration management business logic.
type ConfigUseCase interface {
	// Set creates or updates an entry. Updates bump the version; every write
	// appends a history record.
	Set(ctx context.Context, namespace, key string, value configsDomain.Value, environment configsDomain.Environment, updatedBy string) (*configsDomain.Entry, error)

	// SetSecret encrypts plaintext and stores it as a secret value. Requires
	// an encryption key to be configured.
	SetSecret(ctx context.Context, namespace, key string, plaintext []byte, environment configsDomain.Environment, updatedBy string) (*configsDomain.Entry, error)

	// Get returns an entry, transparently decrypting secret values into
	// string values.
	Get(ctx context.Context, namespace, key string, environment configsDomain.Environment) (*configsDomain.Entry, error)

	// GetSecret returns the raw decrypted bytes of a secret value.
	GetSecret(ctx context.Context, namespace, key string, environment configsDomain.Environment) ([]byte, error)

	// GetWithOverrides resolves an entry through the environment override
	// chain: the base value, overridden by each environment in the chain
	// that has its own entry.
	GetWithOverrides(ctx context.Context, namespace, key string, environment configsDomain.Environment) (*configsDomain.Entry, error)

	// List returns the sorted keys of a namespace in one environment.
	List(ctx context.Context, namespace string, environment configsDomain.Environment) ([]string, error)

	// ListEntries returns the full entries of a namespace in key order.
	// Secret values are decrypted when a key is configured and stay in
	// their encrypted form when not.
	ListEntries(ctx context.Context, namespace string, environment configsDomain.Environment) ([]configsDomain.Entry, error)

	// Delete removes the current entry. History records are kept.
	Delete(ctx context.Context, namespace, key string, environment configsDomain.Environment) error

	// GetHistory returns the version history of an entry, newest first.
	GetHistory(ctx context.Context, namespace, key string, environment configsDomain.Environment) ([]configsDomain.Version, error)

	// Rollback restores the value of a past version as a new head version.
	Rollback(ctx context.Context, namespace, key string, environment configsDomain.Environment, targetVersion uint64, performedBy string) (*configsDomain.Entry, error)

	// Export writes every current entry into destDir and returns the count.
	Export(ctx context.Context, destDir string) (int, error)

	// CacheStats returns L1 cache counters and the L2 entry count.
	CacheStats() (cache.Stats, int)
}
