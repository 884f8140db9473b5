package commands

import (
	"context"
	"fmt"
)

// RunExport writes every current entry into destDir as individual JSON
// files. Secret values stay encrypted in the export.
func RunExport(ctx context.Context, storagePath, encryptionKey, destDir string, io IOTuple) error {
	useCase, err := newConfigUseCase(storagePath, encryptionKey)
	if err != nil {
		return err
	}

	count, err := useCase.Export(ctx, destDir)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(io.Writer, "Exported %d entries to %s\n", count, destDir)
	return err
}
