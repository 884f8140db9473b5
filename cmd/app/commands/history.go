package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// RunHistory prints the version history of an entry, newest first.
func RunHistory(ctx context.Context, storagePath, encryptionKey, namespace, key, environment, format string, io IOTuple) error {
	useCase, err := newConfigUseCase(storagePath, encryptionKey)
	if err != nil {
		return err
	}

	env, err := parseEnvironment(environment)
	if err != nil {
		return err
	}

	versions, err := useCase.GetHistory(ctx, namespace, key, env)
	if err != nil {
		return err
	}

	if format == "json" {
		return printJSON(io.Writer, versions)
	}

	if len(versions) == 0 {
		_, err = fmt.Fprintf(io.Writer, "No history for %s/%s in %s\n", namespace, key, env)
		return err
	}

	for _, version := range versions {
		encoded, err := json.Marshal(version.Value)
		if err != nil {
			return fmt.Errorf("failed to encode value: %w", err)
		}

		line := fmt.Sprintf("v%d  %s  %s  %s",
			version.Version,
			version.CreatedAt.Format(time.RFC3339),
			version.CreatedBy,
			string(encoded),
		)
		if version.ChangeDescription != nil {
			line += fmt.Sprintf("  (%s)", *version.ChangeDescription)
		}
		if _, err := fmt.Fprintln(io.Writer, line); err != nil {
			return err
		}
	}
	return nil
}
