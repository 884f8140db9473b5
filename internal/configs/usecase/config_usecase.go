package usecase

import (
	"context"
	"fmt"
	"unicode/utf8"

	"golang.org/x/sync/singleflight"

	"github.com/allisson/llm-config/internal/cache"
	configsDomain "github.com/allisson/llm-config/internal/configs/domain"
	cryptoDomain "github.com/allisson/llm-config/internal/crypto/domain"
	cryptoService "github.com/allisson/llm-config/internal/crypto/service"
)

// configUseCase implements ConfigUseCase over a repository, the two-tier
// cache and an optional encryption key. The cache always holds entries in
// their persisted form, so secret values stay encrypted at rest in both
// tiers and are only decrypted on the way out.
type configUseCase struct {
	repository    ConfigRepository
	cacheManager  *cache.Manager
	cipher        cryptoService.Cipher
	encryptionKey *cryptoDomain.SecretKey
	loads         singleflight.Group
}

// NewConfigUseCase creates a new ConfigUseCase. The encryption key may be
// nil, in which case secret operations fail with ErrKeyNotConfigured while
// plain configuration operations keep working.
func NewConfigUseCase(
	repository ConfigRepository,
	cacheManager *cache.Manager,
	cipher cryptoService.Cipher,
	encryptionKey *cryptoDomain.SecretKey,
) ConfigUseCase {
	return &configUseCase{
		repository:    repository,
		cacheManager:  cacheManager,
		cipher:        cipher,
		encryptionKey: encryptionKey,
	}
}

// fetch loads the persisted form of an entry, cache first. Concurrent
// misses for the same fingerprint are collapsed into a single repository
// read.
func (c *configUseCase) fetch(ctx context.Context, namespace, key string, environment configsDomain.Environment) (*configsDomain.Entry, error) {
	fingerprint := cache.Fingerprint(namespace, key, environment)
	if entry, ok := c.cacheManager.Get(fingerprint); ok {
		return entry, nil
	}

	result, err, _ := c.loads.Do(fingerprint, func() (any, error) {
		entry, err := c.repository.Get(ctx, namespace, key, environment)
		if err != nil {
			return nil, err
		}
		_ = c.cacheManager.Put(fingerprint, *entry)
		return entry, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*configsDomain.Entry), nil
}

// store persists an entry, appends its history record and refreshes the
// cache tiers.
func (c *configUseCase) store(ctx context.Context, entry *configsDomain.Entry, changeDescription *string) error {
	if err := c.repository.Save(ctx, entry); err != nil {
		return err
	}

	version := configsDomain.NewVersion(*entry, changeDescription)
	if err := c.repository.SaveVersion(ctx, &version); err != nil {
		return err
	}

	return c.cacheManager.Put(cache.Fingerprint(entry.Namespace, entry.Key, entry.Environment), *entry)
}

func (c *configUseCase) set(ctx context.Context, namespace, key string, value configsDomain.Value, environment configsDomain.Environment, updatedBy string) (*configsDomain.Entry, error) {
	entry, err := c.repository.Get(ctx, namespace, key, environment)
	switch {
	case err == nil:
		entry.Update(value, updatedBy)
	case isNotFound(err):
		created := configsDomain.NewEntry(namespace, key, value, environment, updatedBy)
		entry = &created
	default:
		return nil, err
	}

	if err := c.store(ctx, entry, nil); err != nil {
		return nil, err
	}
	return entry, nil
}

// Set creates or updates a plain configuration value.
func (c *configUseCase) Set(ctx context.Context, namespace, key string, value configsDomain.Value, environment configsDomain.Environment, updatedBy string) (*configsDomain.Entry, error) {
	return c.set(ctx, namespace, key, value, environment, updatedBy)
}

// SetSecret encrypts plaintext and stores it as a secret value.
func (c *configUseCase) SetSecret(ctx context.Context, namespace, key string, plaintext []byte, environment configsDomain.Environment, updatedBy string) (*configsDomain.Entry, error) {
	if c.encryptionKey == nil {
		return nil, configsDomain.ErrKeyNotConfigured
	}

	encrypted, err := c.cipher.Encrypt(c.encryptionKey, plaintext, "")
	if err != nil {
		return nil, err
	}

	return c.set(ctx, namespace, key, configsDomain.SecretValue(encrypted), environment, updatedBy)
}

// Get returns an entry with secret values transparently decrypted. The
// returned entry is a copy; the cached and persisted forms stay encrypted.
func (c *configUseCase) Get(ctx context.Context, namespace, key string, environment configsDomain.Environment) (*configsDomain.Entry, error) {
	entry, err := c.fetch(ctx, namespace, key, environment)
	if err != nil {
		return nil, err
	}
	return c.reveal(entry)
}

// reveal decrypts a secret value into a string value, leaving plain values
// untouched.
func (c *configUseCase) reveal(entry *configsDomain.Entry) (*configsDomain.Entry, error) {
	encrypted, ok := entry.Value.AsSecret()
	if !ok {
		out := *entry
		return &out, nil
	}

	if c.encryptionKey == nil {
		return nil, configsDomain.ErrKeyNotConfigured
	}

	plaintext, err := c.cipher.Decrypt(c.encryptionKey, encrypted)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(plaintext) {
		return nil, configsDomain.ErrSecretNotUTF8
	}

	out := *entry
	out.Value = configsDomain.StringValue(string(plaintext))
	return &out, nil
}

// GetSecret returns the raw decrypted bytes of a secret value.
func (c *configUseCase) GetSecret(ctx context.Context, namespace, key string, environment configsDomain.Environment) ([]byte, error) {
	if c.encryptionKey == nil {
		return nil, configsDomain.ErrKeyNotConfigured
	}

	entry, err := c.fetch(ctx, namespace, key, environment)
	if err != nil {
		return nil, err
	}

	encrypted, ok := entry.Value.AsSecret()
	if !ok {
		return nil, configsDomain.ErrNotASecret
	}

	return c.cipher.Decrypt(c.encryptionKey, encrypted)
}

// GetWithOverrides resolves an entry through the environment override chain.
// The base entry seeds the result and each environment in the chain that has
// its own entry replaces it; the last one wins.
func (c *configUseCase) GetWithOverrides(ctx context.Context, namespace, key string, environment configsDomain.Environment) (*configsDomain.Entry, error) {
	var winner *configsDomain.Entry

	candidates := append([]configsDomain.Environment{configsDomain.EnvBase}, environment.OverrideChain()...)
	for _, candidate := range candidates {
		entry, err := c.fetch(ctx, namespace, key, candidate)
		switch {
		case err == nil:
			winner = entry
		case isNotFound(err):
			continue
		default:
			return nil, err
		}
	}

	if winner == nil {
		return nil, configsDomain.ErrEntryNotFound
	}
	return c.reveal(winner)
}

// List returns the sorted keys of a namespace in one environment.
func (c *configUseCase) List(ctx context.Context, namespace string, environment configsDomain.Environment) ([]string, error) {
	return c.repository.List(ctx, namespace, environment)
}

// ListEntries returns the full entries of a namespace in key order. Secret
// values are transparently decrypted when a key is configured; without one
// they keep their encrypted form.
func (c *configUseCase) ListEntries(ctx context.Context, namespace string, environment configsDomain.Environment) ([]configsDomain.Entry, error) {
	keys, err := c.repository.List(ctx, namespace, environment)
	if err != nil {
		return nil, err
	}

	entries := make([]configsDomain.Entry, 0, len(keys))
	for _, key := range keys {
		entry, err := c.fetch(ctx, namespace, key, environment)
		if err != nil {
			if isNotFound(err) {
				continue
			}
			return nil, err
		}
		if c.encryptionKey != nil {
			if entry, err = c.reveal(entry); err != nil {
				return nil, err
			}
		}
		entries = append(entries, *entry)
	}
	return entries, nil
}

// Delete removes the current entry and drops it from the cache. History
// records are kept and no new record is written.
func (c *configUseCase) Delete(ctx context.Context, namespace, key string, environment configsDomain.Environment) error {
	if err := c.repository.Delete(ctx, namespace, key, environment); err != nil {
		return err
	}
	c.cacheManager.Invalidate(cache.Fingerprint(namespace, key, environment))
	return nil
}

// GetHistory returns the version history of an entry, newest first.
func (c *configUseCase) GetHistory(ctx context.Context, namespace, key string, environment configsDomain.Environment) ([]configsDomain.Version, error) {
	return c.repository.GetVersions(ctx, namespace, key, environment)
}

// Rollback restores the value of a past version as a new head version, so
// the rollback itself is recorded in the history.
func (c *configUseCase) Rollback(ctx context.Context, namespace, key string, environment configsDomain.Environment, targetVersion uint64, performedBy string) (*configsDomain.Entry, error) {
	versions, err := c.repository.GetVersions(ctx, namespace, key, environment)
	if err != nil {
		return nil, err
	}

	var target *configsDomain.Version
	for i := range versions {
		if versions[i].Version == targetVersion {
			target = &versions[i]
			break
		}
	}
	if target == nil {
		return nil, configsDomain.ErrVersionNotFound
	}

	entry, err := c.repository.Get(ctx, namespace, key, environment)
	switch {
	case err == nil:
	case isNotFound(err):
		// A deleted entry is restored through its history, continuing the
		// version sequence from the newest record.
		rebuilt := configsDomain.NewEntry(namespace, key, target.Value, environment, performedBy)
		rebuilt.Version = versions[0].Version
		entry = &rebuilt
	default:
		return nil, err
	}

	entry.Update(target.Value, performedBy)
	description := fmt.Sprintf("Rollback to version %d", targetVersion)
	if err := c.store(ctx, entry, &description); err != nil {
		return nil, err
	}
	return entry, nil
}

// Export writes every current entry into destDir.
func (c *configUseCase) Export(ctx context.Context, destDir string) (int, error) {
	return c.repository.ExportAll(ctx, destDir)
}

// CacheStats returns L1 cache counters and the L2 entry count.
func (c *configUseCase) CacheStats() (cache.Stats, int) {
	return c.cacheManager.Stats()
}
