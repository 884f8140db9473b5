package commands

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	cryptoService "github.com/allisson/llm-config/internal/crypto/service"
)

func TestRunDeriveKey(t *testing.T) {
	t.Run("derives-key-and-verifier", func(t *testing.T) {
		var out bytes.Buffer
		err := RunDeriveKey(IOTuple{
			Reader: strings.NewReader("correct horse battery staple\n"),
			Writer: &out,
		})
		require.NoError(t, err)

		var encoded, verifier string
		for _, line := range strings.Split(out.String(), "\n") {
			if v, ok := strings.CutPrefix(line, "LLM_CONFIG_KEY="); ok {
				encoded = v
			}
			if v, ok := strings.CutPrefix(line, "VERIFIER="); ok {
				verifier = v
			}
		}

		raw, err := base64.StdEncoding.DecodeString(encoded)
		require.NoError(t, err)
		require.Len(t, raw, 32)

		deriver := cryptoService.NewArgon2Deriver()
		require.True(t, deriver.VerifyPassword([]byte("correct horse battery staple"), verifier))
		require.False(t, deriver.VerifyPassword([]byte("wrong"), verifier))
	})

	t.Run("empty-passphrase", func(t *testing.T) {
		err := RunDeriveKey(IOTuple{
			Reader: strings.NewReader("\n"),
			Writer: &bytes.Buffer{},
		})
		require.Error(t, err)
	})
}
