package service

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/llm-config/internal/crypto/domain"
)

func testKey(t *testing.T) *cryptoDomain.SecretKey {
	t.Helper()
	key, err := GenerateKey()
	require.NoError(t, err)
	return key
}

func TestGenerateKey(t *testing.T) {
	t.Parallel()

	key1, err := GenerateKey()
	require.NoError(t, err)
	key2, err := GenerateKey()
	require.NoError(t, err)

	assert.Len(t, key1.Bytes(), cryptoDomain.KeySize)
	assert.NotEqual(t, key1.Bytes(), key2.Bytes())
}

func TestAESGCMCipher_EncryptDecrypt(t *testing.T) {
	t.Parallel()

	cipher := NewAESGCMCipher()
	key := testKey(t)
	plaintext := []byte("sensitive configuration value")

	t.Run("round trip without aad", func(t *testing.T) {
		t.Parallel()

		data, err := cipher.Encrypt(key, plaintext, "")
		require.NoError(t, err)
		assert.Equal(t, cryptoDomain.AESGCM, data.Algorithm)
		assert.Len(t, []byte(data.Nonce), cryptoDomain.NonceSize)
		assert.Len(t, []byte(data.Ciphertext), len(plaintext)+cryptoDomain.TagSize)
		assert.Equal(t, uint32(1), data.KeyVersion)
		assert.Nil(t, data.AADContext)

		decrypted, err := cipher.Decrypt(key, data)
		require.NoError(t, err)
		assert.Equal(t, plaintext, decrypted)
	})

	t.Run("round trip with aad context", func(t *testing.T) {
		t.Parallel()

		data, err := cipher.Encrypt(key, plaintext, "app/database_url/production")
		require.NoError(t, err)
		require.NotNil(t, data.AADContext)
		assert.Equal(t, "app/database_url/production", *data.AADContext)

		decrypted, err := cipher.Decrypt(key, data)
		require.NoError(t, err)
		assert.Equal(t, plaintext, decrypted)
	})

	t.Run("unique nonce per encryption", func(t *testing.T) {
		t.Parallel()

		first, err := cipher.Encrypt(key, plaintext, "")
		require.NoError(t, err)
		second, err := cipher.Encrypt(key, plaintext, "")
		require.NoError(t, err)

		assert.False(t, bytes.Equal(first.Nonce, second.Nonce))
		assert.False(t, bytes.Equal(first.Ciphertext, second.Ciphertext))
	})

	t.Run("empty plaintext", func(t *testing.T) {
		t.Parallel()

		data, err := cipher.Encrypt(key, nil, "")
		require.NoError(t, err)

		decrypted, err := cipher.Decrypt(key, data)
		require.NoError(t, err)
		assert.Empty(t, decrypted)
	})
}

func TestAESGCMCipher_DecryptFailures(t *testing.T) {
	t.Parallel()

	cipher := NewAESGCMCipher()
	key := testKey(t)

	encrypt := func(t *testing.T, aadContext string) *cryptoDomain.EncryptedData {
		t.Helper()
		data, err := cipher.Encrypt(key, []byte("payload"), aadContext)
		require.NoError(t, err)
		return data
	}

	t.Run("wrong key", func(t *testing.T) {
		t.Parallel()

		data := encrypt(t, "")
		_, err := cipher.Decrypt(testKey(t), data)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("tampered ciphertext", func(t *testing.T) {
		t.Parallel()

		data := encrypt(t, "")
		data.Ciphertext[0] ^= 0xff
		_, err := cipher.Decrypt(key, data)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("stripped aad context", func(t *testing.T) {
		t.Parallel()

		data := encrypt(t, "configs/prod")
		data.AADContext = nil
		_, err := cipher.Decrypt(key, data)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("unknown algorithm", func(t *testing.T) {
		t.Parallel()

		data := encrypt(t, "")
		data.Algorithm = "rot13"
		_, err := cipher.Decrypt(key, data)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("invalid nonce size", func(t *testing.T) {
		t.Parallel()

		data := encrypt(t, "")
		data.Nonce = data.Nonce[:8]
		_, err := cipher.Decrypt(key, data)
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidNonceSize)
	})
}

func TestAESGCMCipher_EnvelopeSurvivesSerialization(t *testing.T) {
	t.Parallel()

	cipher := NewAESGCMCipher()
	key := testKey(t)

	data, err := cipher.Encrypt(key, []byte("persist me"), "ns/key/env")
	require.NoError(t, err)

	raw, err := json.Marshal(data)
	require.NoError(t, err)

	var restored cryptoDomain.EncryptedData
	require.NoError(t, json.Unmarshal(raw, &restored))

	decrypted, err := cipher.Decrypt(key, &restored)
	require.NoError(t, err)
	assert.Equal(t, []byte("persist me"), decrypted)
}
