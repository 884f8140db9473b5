package domain

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/llm-config/internal/errors"
)

func TestNewSecretKey(t *testing.T) {
	t.Parallel()

	t.Run("valid 32 byte key", func(t *testing.T) {
		t.Parallel()

		raw := bytes.Repeat([]byte{0xab}, KeySize)
		key, err := NewSecretKey(raw)
		require.NoError(t, err)
		assert.Equal(t, AESGCM, key.Algorithm())
		assert.Equal(t, raw, key.Bytes())
	})

	t.Run("copies the input buffer", func(t *testing.T) {
		t.Parallel()

		raw := bytes.Repeat([]byte{0x01}, KeySize)
		key, err := NewSecretKey(raw)
		require.NoError(t, err)

		raw[0] = 0xff
		assert.Equal(t, byte(0x01), key.Bytes()[0])
	})

	t.Run("rejects wrong sizes", func(t *testing.T) {
		t.Parallel()

		for _, size := range []int{0, 16, 31, 33, 64} {
			_, err := NewSecretKey(make([]byte, size))
			assert.ErrorIs(t, err, ErrInvalidKeySize, "size %d", size)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput, "size %d", size)
		}
	})
}

func TestSecretKeyEncoding(t *testing.T) {
	t.Parallel()

	raw := bytes.Repeat([]byte{0x42}, KeySize)
	key, err := NewSecretKey(raw)
	require.NoError(t, err)

	t.Run("base64 round trip", func(t *testing.T) {
		t.Parallel()

		decoded, err := SecretKeyFromBase64(key.ToBase64())
		require.NoError(t, err)
		assert.Equal(t, raw, decoded.Bytes())
	})

	t.Run("hex round trip", func(t *testing.T) {
		t.Parallel()

		decoded, err := SecretKeyFromHex(key.ToHex())
		require.NoError(t, err)
		assert.Equal(t, raw, decoded.Bytes())
	})

	t.Run("invalid base64", func(t *testing.T) {
		t.Parallel()

		_, err := SecretKeyFromBase64("not base64!!!")
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("invalid hex", func(t *testing.T) {
		t.Parallel()

		_, err := SecretKeyFromHex("zzzz")
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}

func TestSecretKeyDestroy(t *testing.T) {
	t.Parallel()

	key, err := NewSecretKey(bytes.Repeat([]byte{0x7f}, KeySize))
	require.NoError(t, err)

	material := key.Bytes()
	key.Destroy()

	assert.Nil(t, key.Bytes())
	assert.Equal(t, make([]byte, KeySize), material)
}

func TestSecretKeyRedaction(t *testing.T) {
	t.Parallel()

	key, err := NewSecretKey(bytes.Repeat([]byte{0x42}, KeySize))
	require.NoError(t, err)

	for _, verb := range []string{"%v", "%+v", "%#v", "%s"} {
		out := fmt.Sprintf(verb, key)
		assert.Equal(t, "SecretKey([REDACTED])", out)
		assert.NotContains(t, out, "42")
	}
}
