package commands

import (
	"context"
	"fmt"
)

// RunRollback restores a past version as a new head version.
func RunRollback(ctx context.Context, storagePath, encryptionKey, namespace, key, environment string, targetVersion uint64, user string, io IOTuple) error {
	useCase, err := newConfigUseCase(storagePath, encryptionKey)
	if err != nil {
		return err
	}

	env, err := parseEnvironment(environment)
	if err != nil {
		return err
	}

	entry, err := useCase.Rollback(ctx, namespace, key, env, targetVersion, user)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(io.Writer, "Rolled back %s/%s in %s to version %d (now version %d)\n",
		namespace, key, env, targetVersion, entry.Version)
	return err
}
