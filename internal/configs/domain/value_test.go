package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/llm-config/internal/crypto/domain"
)

func TestValueMarshalJSON(t *testing.T) {
	t.Parallel()

	aad := "ctx"
	tests := []struct {
		name  string
		value Value
		want  string
	}{
		{"string", StringValue("hello"), `"hello"`},
		{"integer", IntegerValue(42), `42`},
		{"negative integer", IntegerValue(-7), `-7`},
		{"float", FloatValue(3.5), `3.5`},
		{"boolean", BooleanValue(true), `true`},
		{"array", ArrayValue(IntegerValue(1), StringValue("two")), `[1,"two"]`},
		{"empty array", ArrayValue(), `[]`},
		{"object", ObjectValue(map[string]Value{"a": BooleanValue(false)}), `{"a":false}`},
		{"empty object", ObjectValue(nil), `{}`},
		{
			"secret",
			SecretValue(&cryptoDomain.EncryptedData{
				Algorithm:  cryptoDomain.AESGCM,
				Nonce:      cryptoDomain.HexBytes{0x01},
				Ciphertext: cryptoDomain.HexBytes{0x02},
				KeyVersion: 1,
				AADContext: &aad,
			}),
			`{"algorithm":"aes-256-gcm","nonce":"01","ciphertext":"02","key_version":1,"aad_context":"ctx"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			raw, err := json.Marshal(tt.value)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(raw))
		})
	}
}

func TestValueUnmarshalJSON(t *testing.T) {
	t.Parallel()

	t.Run("string", func(t *testing.T) {
		t.Parallel()

		var v Value
		require.NoError(t, json.Unmarshal([]byte(`"hello"`), &v))
		s, ok := v.AsString()
		require.True(t, ok)
		assert.Equal(t, "hello", s)
	})

	t.Run("integral number decodes as integer", func(t *testing.T) {
		t.Parallel()

		var v Value
		require.NoError(t, json.Unmarshal([]byte(`42`), &v))
		i, ok := v.AsInteger()
		require.True(t, ok, "kind %s", v.Kind())
		assert.Equal(t, int64(42), i)
	})

	t.Run("decimal number decodes as float", func(t *testing.T) {
		t.Parallel()

		var v Value
		require.NoError(t, json.Unmarshal([]byte(`42.5`), &v))
		f, ok := v.AsFloat()
		require.True(t, ok)
		assert.Equal(t, 42.5, f)
	})

	t.Run("exponent number decodes as float", func(t *testing.T) {
		t.Parallel()

		var v Value
		require.NoError(t, json.Unmarshal([]byte(`1e3`), &v))
		f, ok := v.AsFloat()
		require.True(t, ok)
		assert.Equal(t, 1000.0, f)
	})

	t.Run("boolean", func(t *testing.T) {
		t.Parallel()

		var v Value
		require.NoError(t, json.Unmarshal([]byte(`true`), &v))
		b, ok := v.AsBoolean()
		require.True(t, ok)
		assert.True(t, b)
	})

	t.Run("array with nested values", func(t *testing.T) {
		t.Parallel()

		var v Value
		require.NoError(t, json.Unmarshal([]byte(`[1, "two", {"three": 3}]`), &v))
		items, ok := v.AsArray()
		require.True(t, ok)
		require.Len(t, items, 3)
		assert.Equal(t, KindInteger, items[0].Kind())
		assert.Equal(t, KindString, items[1].Kind())
		assert.Equal(t, KindObject, items[2].Kind())
	})

	t.Run("plain object", func(t *testing.T) {
		t.Parallel()

		var v Value
		require.NoError(t, json.Unmarshal([]byte(`{"host": "localhost", "port": 5432}`), &v))
		fields, ok := v.AsObject()
		require.True(t, ok)
		assert.Equal(t, KindString, fields["host"].Kind())
		assert.Equal(t, KindInteger, fields["port"].Kind())
	})

	t.Run("encrypted payload shape decodes as secret", func(t *testing.T) {
		t.Parallel()

		var v Value
		raw := `{"algorithm":"aes-256-gcm","nonce":"000102030405060708090a0b","ciphertext":"deadbeef","key_version":1}`
		require.NoError(t, json.Unmarshal([]byte(raw), &v))
		require.True(t, v.IsSecret())

		enc, ok := v.AsSecret()
		require.True(t, ok)
		assert.Equal(t, cryptoDomain.AESGCM, enc.Algorithm)
	})

	t.Run("object with partial payload shape stays an object", func(t *testing.T) {
		t.Parallel()

		var v Value
		require.NoError(t, json.Unmarshal([]byte(`{"algorithm":"rsa","nonce":"abc"}`), &v))
		assert.Equal(t, KindObject, v.Kind())
	})

	t.Run("null is rejected", func(t *testing.T) {
		t.Parallel()

		var v Value
		assert.Error(t, json.Unmarshal([]byte(`null`), &v))
	})
}

func TestValueRoundTrip(t *testing.T) {
	t.Parallel()

	original := ObjectValue(map[string]Value{
		"name":    StringValue("service"),
		"retries": IntegerValue(3),
		"ratio":   FloatValue(0.75),
		"debug":   BooleanValue(false),
		"hosts":   ArrayValue(StringValue("a"), StringValue("b")),
	})

	raw, err := json.Marshal(original)
	require.NoError(t, err)

	var restored Value
	require.NoError(t, json.Unmarshal(raw, &restored))

	again, err := json.Marshal(restored)
	require.NoError(t, err)
	assert.JSONEq(t, string(raw), string(again))

	fields, ok := restored.AsObject()
	require.True(t, ok)
	assert.Equal(t, KindInteger, fields["retries"].Kind())
	assert.Equal(t, KindFloat, fields["ratio"].Kind())
}
