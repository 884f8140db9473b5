package domain

import (
	"bytes"
	"encoding/json"
	"strings"

	cryptoDomain "github.com/allisson/llm-config/internal/crypto/domain"
	"github.com/allisson/llm-config/internal/errors"
)

// ValueKind enumerates the variants a configuration value can take.
type ValueKind int

const (
	KindString ValueKind = iota
	KindInteger
	KindFloat
	KindBoolean
	KindArray
	KindObject
	KindSecret
)

// String implements fmt.Stringer.
func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindBoolean:
		return "boolean"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindSecret:
		return "secret"
	default:
		return "unknown"
	}
}

// Value is a typed configuration value. It serializes untagged: plain JSON
// strings, numbers, booleans, arrays and objects map directly onto the
// corresponding variant, and secrets serialize as their encrypted payload
// envelope. Integral JSON numbers decode as Integer, everything else as
// Float, so values round-trip through storage without changing variant.
//
// The zero Value is the empty string.
type Value struct {
	kind    ValueKind
	str     string
	integer int64
	float   float64
	boolean bool
	array   []Value
	object  map[string]Value
	secret  *cryptoDomain.EncryptedData
}

// StringValue creates a string value.
func StringValue(s string) Value {
	return Value{kind: KindString, str: s}
}

// IntegerValue creates an integer value.
func IntegerValue(i int64) Value {
	return Value{kind: KindInteger, integer: i}
}

// FloatValue creates a float value.
func FloatValue(f float64) Value {
	return Value{kind: KindFloat, float: f}
}

// BooleanValue creates a boolean value.
func BooleanValue(b bool) Value {
	return Value{kind: KindBoolean, boolean: b}
}

// ArrayValue creates an array value.
func ArrayValue(items ...Value) Value {
	return Value{kind: KindArray, array: items}
}

// ObjectValue creates an object value.
func ObjectValue(fields map[string]Value) Value {
	return Value{kind: KindObject, object: fields}
}

// SecretValue creates a secret value wrapping an encrypted payload.
func SecretValue(data *cryptoDomain.EncryptedData) Value {
	return Value{kind: KindSecret, secret: data}
}

// Kind returns the variant of the value.
func (v Value) Kind() ValueKind {
	return v.kind
}

// IsSecret reports whether the value is an encrypted secret.
func (v Value) IsSecret() bool {
	return v.kind == KindSecret
}

// AsString returns the string payload when the value is a string.
func (v Value) AsString() (string, bool) {
	return v.str, v.kind == KindString
}

// AsInteger returns the integer payload when the value is an integer.
func (v Value) AsInteger() (int64, bool) {
	return v.integer, v.kind == KindInteger
}

// AsFloat returns the float payload when the value is a float.
func (v Value) AsFloat() (float64, bool) {
	return v.float, v.kind == KindFloat
}

// AsBoolean returns the boolean payload when the value is a boolean.
func (v Value) AsBoolean() (bool, bool) {
	return v.boolean, v.kind == KindBoolean
}

// AsArray returns the items when the value is an array.
func (v Value) AsArray() ([]Value, bool) {
	return v.array, v.kind == KindArray
}

// AsObject returns the fields when the value is an object.
func (v Value) AsObject() (map[string]Value, bool) {
	return v.object, v.kind == KindObject
}

// AsSecret returns the encrypted payload when the value is a secret.
func (v Value) AsSecret() (*cryptoDomain.EncryptedData, bool) {
	return v.secret, v.kind == KindSecret
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindInteger:
		return json.Marshal(v.integer)
	case KindFloat:
		return json.Marshal(v.float)
	case KindBoolean:
		return json.Marshal(v.boolean)
	case KindArray:
		if v.array == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.array)
	case KindObject:
		if v.object == nil {
			return []byte("{}"), nil
		}
		return json.Marshal(v.object)
	case KindSecret:
		return json.Marshal(v.secret)
	default:
		return nil, errors.Wrapf(errors.ErrInvalidInput, "unknown value kind %d", v.kind)
	}
}

// UnmarshalJSON implements json.Unmarshaler. Objects carrying the encrypted
// payload shape (algorithm, nonce and ciphertext fields) decode as secrets;
// every other object decodes as a plain object.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return errors.Wrap(errors.ErrInvalidInput, "empty value")
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = StringValue(s)
		return nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = BooleanValue(b)
		return nil
	case 'n':
		return errors.Wrap(errors.ErrInvalidInput, "null is not a valid configuration value")
	case '[':
		var items []Value
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*v = ArrayValue(items...)
		return nil
	case '{':
		if isEncryptedPayload(data) {
			var enc cryptoDomain.EncryptedData
			if err := json.Unmarshal(data, &enc); err == nil {
				*v = SecretValue(&enc)
				return nil
			}
		}
		var fields map[string]Value
		if err := json.Unmarshal(data, &fields); err != nil {
			return err
		}
		*v = ObjectValue(fields)
		return nil
	default:
		var num json.Number
		if err := json.Unmarshal(data, &num); err != nil {
			return err
		}
		if !strings.ContainsAny(num.String(), ".eE") {
			if i, err := num.Int64(); err == nil {
				*v = IntegerValue(i)
				return nil
			}
		}
		f, err := num.Float64()
		if err != nil {
			return err
		}
		*v = FloatValue(f)
		return nil
	}
}

func isEncryptedPayload(data []byte) bool {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return false
	}
	_, hasAlgorithm := probe["algorithm"]
	_, hasNonce := probe["nonce"]
	_, hasCiphertext := probe["ciphertext"]
	return hasAlgorithm && hasNonce && hasCiphertext
}
