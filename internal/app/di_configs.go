package app

import (
	"fmt"

	validation "github.com/jellydator/validation"

	"github.com/allisson/llm-config/internal/cache"
	configsHTTP "github.com/allisson/llm-config/internal/configs/http"
	configsRepository "github.com/allisson/llm-config/internal/configs/repository"
	configsUseCase "github.com/allisson/llm-config/internal/configs/usecase"
	cryptoDomain "github.com/allisson/llm-config/internal/crypto/domain"
	cryptoService "github.com/allisson/llm-config/internal/crypto/service"
	customValidation "github.com/allisson/llm-config/internal/validation"
)

// ConfigRepository returns the file-backed configuration repository.
func (c *Container) ConfigRepository() (configsUseCase.ConfigRepository, error) {
	var err error
	c.configRepoInit.Do(func() {
		c.configRepository, err = configsRepository.NewFileStorage(c.config.StoragePath, c.Logger())
		if err != nil {
			c.initErrors["configRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["configRepository"]; exists {
		return nil, storedErr
	}
	return c.configRepository, nil
}

// CacheManager returns the two-tier cache manager.
func (c *Container) CacheManager() (*cache.Manager, error) {
	var err error
	c.cacheManagerInit.Do(func() {
		var l2 *cache.L2
		l2, err = cache.NewL2(c.config.CacheDir(), c.Logger())
		if err != nil {
			c.initErrors["cacheManager"] = err
			return
		}
		c.cacheManager = cache.NewManager(cache.NewL1(c.config.CacheL1Size), l2)
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["cacheManager"]; exists {
		return nil, storedErr
	}
	return c.cacheManager, nil
}

// EncryptionKey returns the configured AES key, or nil when no key is set.
// Without a key, secret operations fail while plain operations keep working.
func (c *Container) EncryptionKey() (*cryptoDomain.SecretKey, error) {
	var err error
	c.encryptionKeyInit.Do(func() {
		if c.config.EncryptionKey == "" {
			return
		}
		if verr := validation.Validate(c.config.EncryptionKey, customValidation.Base64); verr != nil {
			err = fmt.Errorf("invalid encryption key: %w", verr)
			c.initErrors["encryptionKey"] = err
			return
		}
		c.encryptionKey, err = cryptoDomain.SecretKeyFromBase64(c.config.EncryptionKey)
		if err != nil {
			err = fmt.Errorf("failed to decode encryption key: %w", err)
			c.initErrors["encryptionKey"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["encryptionKey"]; exists {
		return nil, storedErr
	}
	return c.encryptionKey, nil
}

// ConfigUseCase returns the configuration use case, wrapped with metrics
// recording when metrics are enabled.
func (c *Container) ConfigUseCase() (configsUseCase.ConfigUseCase, error) {
	var err error
	c.configUseCaseInit.Do(func() {
		c.configUseCase, err = c.initConfigUseCase()
		if err != nil {
			c.initErrors["configUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["configUseCase"]; exists {
		return nil, storedErr
	}
	return c.configUseCase, nil
}

// ConfigHandler returns the HTTP handler for configuration operations.
func (c *Container) ConfigHandler() (*configsHTTP.ConfigHandler, error) {
	var err error
	c.configHandlerInit.Do(func() {
		c.configHandler, err = c.initConfigHandler()
		if err != nil {
			c.initErrors["configHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["configHandler"]; exists {
		return nil, storedErr
	}
	return c.configHandler, nil
}

// initConfigUseCase assembles the configuration use case.
func (c *Container) initConfigUseCase() (configsUseCase.ConfigUseCase, error) {
	repository, err := c.ConfigRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get repository for config use case: %w", err)
	}

	cacheManager, err := c.CacheManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get cache manager for config use case: %w", err)
	}

	key, err := c.EncryptionKey()
	if err != nil {
		return nil, err
	}

	useCase := configsUseCase.NewConfigUseCase(repository, cacheManager, cryptoService.NewAESGCMCipher(), key)

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for config use case: %w", err)
	}

	return configsUseCase.NewConfigUseCaseWithMetrics(useCase, businessMetrics), nil
}

// initConfigHandler assembles the config HTTP handler.
func (c *Container) initConfigHandler() (*configsHTTP.ConfigHandler, error) {
	useCase, err := c.ConfigUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get use case for config handler: %w", err)
	}

	audit, err := c.AuditUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit use case for config handler: %w", err)
	}

	return configsHTTP.NewConfigHandler(useCase, audit, c.Logger()), nil
}
