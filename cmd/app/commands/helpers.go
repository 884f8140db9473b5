// Package commands contains CLI command implementations for the application.
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	validation "github.com/jellydator/validation"

	"github.com/allisson/llm-config/internal/app"
	"github.com/allisson/llm-config/internal/cache"
	configsDomain "github.com/allisson/llm-config/internal/configs/domain"
	configsRepository "github.com/allisson/llm-config/internal/configs/repository"
	configsUseCase "github.com/allisson/llm-config/internal/configs/usecase"
	cryptoDomain "github.com/allisson/llm-config/internal/crypto/domain"
	cryptoService "github.com/allisson/llm-config/internal/crypto/service"
	customValidation "github.com/allisson/llm-config/internal/validation"
)

// IOTuple holds reader and writer for commands, allowing for testing.
type IOTuple struct {
	Reader io.Reader
	Writer io.Writer
}

// DefaultIO returns an IOTuple with os.Stdin and os.Stdout.
func DefaultIO() IOTuple {
	return IOTuple{
		Reader: os.Stdin,
		Writer: os.Stdout,
	}
}

// closeContainer closes all resources in the container and logs any errors.
func closeContainer(container *app.Container, logger *slog.Logger) {
	if err := container.Shutdown(context.Background()); err != nil {
		logger.Error("failed to shutdown container", slog.Any("error", err))
	}
}

// cliLogger returns a quiet text logger for CLI commands. Warnings still
// surface, informational storage chatter does not.
func cliLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// newConfigUseCase assembles a use case over the given storage directory
// for one-shot CLI commands. encryptionKey is base64 and may be empty.
func newConfigUseCase(storagePath, encryptionKey string) (configsUseCase.ConfigUseCase, error) {
	logger := cliLogger()

	storage, err := configsRepository.NewFileStorage(storagePath, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	l2, err := cache.NewL2(filepath.Join(storagePath, "cache"), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}

	var key *cryptoDomain.SecretKey
	if encryptionKey != "" {
		if err := validation.Validate(encryptionKey, customValidation.Base64); err != nil {
			return nil, fmt.Errorf("invalid encryption key: %w", err)
		}
		key, err = cryptoDomain.SecretKeyFromBase64(encryptionKey)
		if err != nil {
			return nil, fmt.Errorf("failed to decode encryption key: %w", err)
		}
	}

	manager := cache.NewManager(cache.NewL1(100), l2)
	return configsUseCase.NewConfigUseCase(storage, manager, cryptoService.NewAESGCMCipher(), key), nil
}

// parseEnvironment resolves the --env flag, defaulting to base.
func parseEnvironment(value string) (configsDomain.Environment, error) {
	if value == "" {
		return configsDomain.EnvBase, nil
	}
	return configsDomain.ParseEnvironment(value)
}

// parseValue interprets a CLI value argument: valid JSON is taken as-is,
// anything else becomes a plain string.
func parseValue(raw string) configsDomain.Value {
	var value configsDomain.Value
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return configsDomain.StringValue(raw)
	}
	return value
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(encoded))
	return err
}
