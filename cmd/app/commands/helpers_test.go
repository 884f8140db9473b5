package commands

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewConfigUseCase(t *testing.T) {
	t.Run("rejects a malformed encryption key", func(t *testing.T) {
		_, err := newConfigUseCase(t.TempDir(), "not-base64!!!")
		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid encryption key")
	})

	t.Run("accepts a generated key", func(t *testing.T) {
		_, err := newConfigUseCase(t.TempDir(), testEncryptionKey(t))
		require.NoError(t, err)
	})
}
