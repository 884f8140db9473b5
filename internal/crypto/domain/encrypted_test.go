package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptedDataJSON(t *testing.T) {
	t.Parallel()

	t.Run("marshals binary fields as hex", func(t *testing.T) {
		t.Parallel()

		aad := "configs/prod"
		data := EncryptedData{
			Algorithm:  AESGCM,
			Nonce:      HexBytes{0x00, 0x01, 0x02},
			Ciphertext: HexBytes{0xde, 0xad, 0xbe, 0xef},
			KeyVersion: 2,
			AADContext: &aad,
		}

		raw, err := json.Marshal(data)
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"algorithm": "aes-256-gcm",
			"nonce": "000102",
			"ciphertext": "deadbeef",
			"key_version": 2,
			"aad_context": "configs/prod"
		}`, string(raw))
	})

	t.Run("omits absent aad context", func(t *testing.T) {
		t.Parallel()

		raw, err := json.Marshal(EncryptedData{Algorithm: AESGCM, KeyVersion: 1})
		require.NoError(t, err)
		assert.NotContains(t, string(raw), "aad_context")
	})

	t.Run("key version defaults to 1", func(t *testing.T) {
		t.Parallel()

		var data EncryptedData
		err := json.Unmarshal([]byte(`{"algorithm":"aes-256-gcm","nonce":"0a","ciphertext":"ff"}`), &data)
		require.NoError(t, err)
		assert.Equal(t, uint32(1), data.KeyVersion)
		assert.Equal(t, HexBytes{0x0a}, data.Nonce)
		assert.Equal(t, HexBytes{0xff}, data.Ciphertext)
	})

	t.Run("rejects invalid hex", func(t *testing.T) {
		t.Parallel()

		var data EncryptedData
		err := json.Unmarshal([]byte(`{"algorithm":"aes-256-gcm","nonce":"zz","ciphertext":"ff"}`), &data)
		assert.Error(t, err)
	})
}
