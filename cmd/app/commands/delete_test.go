package commands

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes-entry-keeps-history", func(t *testing.T) {
		storage := t.TempDir()
		require.NoError(t, RunSet(ctx, storage, "", "myapp", "timeout", "30", "base", "alice", false, IOTuple{Writer: &bytes.Buffer{}}))

		var out bytes.Buffer
		err := RunDelete(ctx, storage, "", "myapp", "timeout", "base", IOTuple{Writer: &out})
		require.NoError(t, err)
		require.Contains(t, out.String(), "Deleted myapp/timeout from base")

		err = RunGet(ctx, storage, "", "myapp", "timeout", "base", false, "text", IOTuple{Writer: &bytes.Buffer{}})
		require.Error(t, err)

		out.Reset()
		require.NoError(t, RunHistory(ctx, storage, "", "myapp", "timeout", "base", "text", IOTuple{Writer: &out}))
		require.Contains(t, out.String(), "v1")
	})

	t.Run("not-found", func(t *testing.T) {
		err := RunDelete(ctx, t.TempDir(), "", "myapp", "missing", "base", IOTuple{Writer: &bytes.Buffer{}})
		require.Error(t, err)
	})
}
