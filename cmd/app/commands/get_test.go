package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunGet(t *testing.T) {
	ctx := context.Background()

	t.Run("json-format", func(t *testing.T) {
		storage := t.TempDir()
		require.NoError(t, RunSet(ctx, storage, "", "myapp", "timeout", "30", "production", "alice", false, IOTuple{Writer: &bytes.Buffer{}}))

		var out bytes.Buffer
		err := RunGet(ctx, storage, "", "myapp", "timeout", "prod", false, "json", IOTuple{Writer: &out})
		require.NoError(t, err)

		var entry map[string]any
		require.NoError(t, json.Unmarshal(out.Bytes(), &entry))
		require.Equal(t, "myapp", entry["namespace"])
		require.Equal(t, "timeout", entry["key"])
		require.Equal(t, "production", entry["environment"])
		require.EqualValues(t, 1, entry["version"])
	})

	t.Run("with-overrides", func(t *testing.T) {
		storage := t.TempDir()
		require.NoError(t, RunSet(ctx, storage, "", "myapp", "timeout", "30", "base", "alice", false, IOTuple{Writer: &bytes.Buffer{}}))
		require.NoError(t, RunSet(ctx, storage, "", "myapp", "timeout", "60", "production", "alice", false, IOTuple{Writer: &bytes.Buffer{}}))

		var out bytes.Buffer
		err := RunGet(ctx, storage, "", "myapp", "timeout", "production", true, "text", IOTuple{Writer: &out})
		require.NoError(t, err)
		require.Equal(t, "60\n", out.String())

		// Staging has no override, so resolution falls back to base.
		out.Reset()
		err = RunGet(ctx, storage, "", "myapp", "timeout", "staging", true, "text", IOTuple{Writer: &out})
		require.NoError(t, err)
		require.Equal(t, "30\n", out.String())
	})

	t.Run("not-found", func(t *testing.T) {
		err := RunGet(ctx, t.TempDir(), "", "myapp", "missing", "base", false, "text", IOTuple{Writer: &bytes.Buffer{}})
		require.Error(t, err)
	})

	t.Run("secret-without-key", func(t *testing.T) {
		storage := t.TempDir()
		key := testEncryptionKey(t)
		require.NoError(t, RunSet(ctx, storage, key, "myapp", "api_token", "s3cr3t", "base", "alice", true, IOTuple{Writer: &bytes.Buffer{}}))

		err := RunGet(ctx, storage, "", "myapp", "api_token", "base", false, "text", IOTuple{Writer: &bytes.Buffer{}})
		require.Error(t, err)
	})
}
