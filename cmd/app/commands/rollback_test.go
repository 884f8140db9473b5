package commands

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunRollback(t *testing.T) {
	ctx := context.Background()

	t.Run("restores-past-value", func(t *testing.T) {
		storage := t.TempDir()
		require.NoError(t, RunSet(ctx, storage, "", "myapp", "timeout", "10", "base", "alice", false, IOTuple{Writer: &bytes.Buffer{}}))
		require.NoError(t, RunSet(ctx, storage, "", "myapp", "timeout", "20", "base", "alice", false, IOTuple{Writer: &bytes.Buffer{}}))

		var out bytes.Buffer
		err := RunRollback(ctx, storage, "", "myapp", "timeout", "base", 1, "bob", IOTuple{Writer: &out})
		require.NoError(t, err)
		require.Contains(t, out.String(), "Rolled back myapp/timeout in base to version 1 (now version 3)")

		out.Reset()
		require.NoError(t, RunGet(ctx, storage, "", "myapp", "timeout", "base", false, "text", IOTuple{Writer: &out}))
		require.Equal(t, "10\n", out.String())
	})

	t.Run("unknown-version", func(t *testing.T) {
		storage := t.TempDir()
		require.NoError(t, RunSet(ctx, storage, "", "myapp", "timeout", "10", "base", "alice", false, IOTuple{Writer: &bytes.Buffer{}}))

		err := RunRollback(ctx, storage, "", "myapp", "timeout", "base", 99, "bob", IOTuple{Writer: &bytes.Buffer{}})
		require.Error(t, err)
	})
}
