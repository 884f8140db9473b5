package commands

import (
	"context"
	"fmt"

	configsDomain "github.com/allisson/llm-config/internal/configs/domain"
)

// RunSet creates or updates a configuration value. The raw value argument
// is parsed as JSON when possible and stored as a string otherwise. With
// secret set, the value is encrypted before it touches disk.
func RunSet(ctx context.Context, storagePath, encryptionKey, namespace, key, rawValue, environment, user string, secret bool, io IOTuple) error {
	useCase, err := newConfigUseCase(storagePath, encryptionKey)
	if err != nil {
		return err
	}

	env, err := parseEnvironment(environment)
	if err != nil {
		return err
	}

	var entry *configsDomain.Entry
	if secret {
		entry, err = useCase.SetSecret(ctx, namespace, key, []byte(rawValue), env, user)
	} else {
		entry, err = useCase.Set(ctx, namespace, key, parseValue(rawValue), env, user)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(io.Writer, "Set %s/%s in %s (version %d)\n", namespace, key, entry.Environment, entry.Version)
	return err
}
