package commands

import (
	"context"
	"fmt"
)

// RunList prints the sorted keys of a namespace in one environment.
func RunList(ctx context.Context, storagePath, encryptionKey, namespace, environment string, io IOTuple) error {
	useCase, err := newConfigUseCase(storagePath, encryptionKey)
	if err != nil {
		return err
	}

	env, err := parseEnvironment(environment)
	if err != nil {
		return err
	}

	keys, err := useCase.List(ctx, namespace, env)
	if err != nil {
		return err
	}

	if len(keys) == 0 {
		_, err = fmt.Fprintf(io.Writer, "No keys in %s (%s)\n", namespace, env)
		return err
	}

	for _, key := range keys {
		if _, err := fmt.Fprintln(io.Writer, key); err != nil {
			return err
		}
	}
	return nil
}
