package commands

import (
	"context"
	"encoding/json"
	"fmt"

	configsDomain "github.com/allisson/llm-config/internal/configs/domain"
)

// RunGet retrieves one configuration value and prints it. Secret values are
// decrypted transparently. With withOverrides the environment override
// chain is applied; with format "json" the full entry is printed.
func RunGet(ctx context.Context, storagePath, encryptionKey, namespace, key, environment string, withOverrides bool, format string, io IOTuple) error {
	useCase, err := newConfigUseCase(storagePath, encryptionKey)
	if err != nil {
		return err
	}

	env, err := parseEnvironment(environment)
	if err != nil {
		return err
	}

	var entry *configsDomain.Entry
	if withOverrides {
		entry, err = useCase.GetWithOverrides(ctx, namespace, key, env)
	} else {
		entry, err = useCase.Get(ctx, namespace, key, env)
	}
	if err != nil {
		return err
	}

	if format == "json" {
		return printJSON(io.Writer, entry)
	}

	encoded, err := json.Marshal(entry.Value)
	if err != nil {
		return fmt.Errorf("failed to encode value: %w", err)
	}
	_, err = fmt.Fprintln(io.Writer, string(encoded))
	return err
}
