package commands

import (
	"context"
	"fmt"
)

// RunDelete removes the current entry. Version history is kept.
func RunDelete(ctx context.Context, storagePath, encryptionKey, namespace, key, environment string, io IOTuple) error {
	useCase, err := newConfigUseCase(storagePath, encryptionKey)
	if err != nil {
		return err
	}

	env, err := parseEnvironment(environment)
	if err != nil {
		return err
	}

	if err := useCase.Delete(ctx, namespace, key, env); err != nil {
		return err
	}

	_, err = fmt.Fprintf(io.Writer, "Deleted %s/%s from %s\n", namespace, key, env)
	return err
}
