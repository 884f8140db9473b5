package app

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/llm-config/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		ServerHost:                     "localhost",
		ServerPort:                     8080,
		StoragePath:                    t.TempDir(),
		CacheL1Size:                    16,
		LogLevel:                       "error",
		RateLimitAuthenticatedPerSec:   100,
		RateLimitUnauthenticatedPerSec: 100,
		RateLimitBurst:                 100,
		RateLimitPerClientPerSec:       100,
		RateLimitPerClientBurst:        100,
		RateLimitBanThreshold:          10,
		RateLimitMaxClients:            100,
		SecurityMaxInputLength:         4096,
		MetricsEnabled:                 false,
	}
}

func TestContainerReturnsSameInstances(t *testing.T) {
	container := NewContainer(testConfig(t))
	t.Cleanup(func() { _ = container.Shutdown(context.Background()) })

	assert.Same(t, container.Logger(), container.Logger())

	repo1, err := container.ConfigRepository()
	require.NoError(t, err)
	repo2, err := container.ConfigRepository()
	require.NoError(t, err)
	assert.Same(t, repo1, repo2)

	useCase1, err := container.ConfigUseCase()
	require.NoError(t, err)
	useCase2, err := container.ConfigUseCase()
	require.NoError(t, err)
	assert.Equal(t, useCase1, useCase2)
}

func TestContainerEncryptionKey(t *testing.T) {
	t.Run("no key configured", func(t *testing.T) {
		container := NewContainer(testConfig(t))
		t.Cleanup(func() { _ = container.Shutdown(context.Background()) })

		key, err := container.EncryptionKey()
		require.NoError(t, err)
		assert.Nil(t, key)
	})

	t.Run("valid key", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.EncryptionKey = base64.StdEncoding.EncodeToString(make([]byte, 32))
		container := NewContainer(cfg)
		t.Cleanup(func() { _ = container.Shutdown(context.Background()) })

		key, err := container.EncryptionKey()
		require.NoError(t, err)
		require.NotNil(t, key)
		assert.Len(t, key.Bytes(), 32)
	})

	t.Run("invalid key", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.EncryptionKey = "not-valid-base64!!!"
		container := NewContainer(cfg)

		_, err := container.EncryptionKey()
		assert.Error(t, err)

		// The error is sticky across calls.
		_, err = container.EncryptionKey()
		assert.Error(t, err)
	})
}

func TestContainerHTTPServer(t *testing.T) {
	container := NewContainer(testConfig(t))
	t.Cleanup(func() { _ = container.Shutdown(context.Background()) })

	server, err := container.HTTPServer()
	require.NoError(t, err)
	assert.NotNil(t, server)
}

func TestContainerMetricsDisabled(t *testing.T) {
	container := NewContainer(testConfig(t))
	t.Cleanup(func() { _ = container.Shutdown(context.Background()) })

	provider, err := container.MetricsProvider()
	require.NoError(t, err)
	assert.Nil(t, provider)

	metricsServer, err := container.MetricsServer()
	require.NoError(t, err)
	assert.Nil(t, metricsServer)

	// Business metrics fall back to the no-op recorder.
	businessMetrics, err := container.BusinessMetrics()
	require.NoError(t, err)
	assert.NotNil(t, businessMetrics)
}

func TestContainerShutdown(t *testing.T) {
	container := NewContainer(testConfig(t))

	_, err := container.HTTPServer()
	require.NoError(t, err)
	_, err = container.AuditUseCase()
	require.NoError(t, err)

	assert.NoError(t, container.Shutdown(context.Background()))
}
