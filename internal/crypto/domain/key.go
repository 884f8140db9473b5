package domain

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"github.com/allisson/llm-config/internal/errors"
)

// SecretKey holds symmetric key material for AES-256-GCM.
//
// The key bytes are never exposed through String or fmt formatting, and
// Destroy overwrites them in memory. Callers that obtain raw bytes via
// Bytes must treat them as borrowed and must not retain them past the
// lifetime of the key.
type SecretKey struct {
	algorithm Algorithm
	bytes     []byte
}

// NewSecretKey creates a SecretKey from raw bytes. The input is copied, so
// the caller remains responsible for zeroing its own buffer.
func NewSecretKey(b []byte) (*SecretKey, error) {
	if len(b) != KeySize {
		return nil, errors.Wrapf(ErrInvalidKeySize, "expected %d bytes, got %d", KeySize, len(b))
	}
	key := make([]byte, KeySize)
	copy(key, b)
	return &SecretKey{algorithm: AESGCM, bytes: key}, nil
}

// SecretKeyFromBase64 decodes a standard-base64 encoded key.
func SecretKeyFromBase64(s string) (*SecretKey, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, "invalid base64 key")
	}
	defer Zero(b)
	return NewSecretKey(b)
}

// SecretKeyFromHex decodes a hex encoded key.
func SecretKeyFromHex(s string) (*SecretKey, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, "invalid hex key")
	}
	defer Zero(b)
	return NewSecretKey(b)
}

// Algorithm returns the algorithm this key is intended for.
func (k *SecretKey) Algorithm() Algorithm {
	return k.algorithm
}

// Bytes returns the raw key material. The returned slice aliases the key's
// internal buffer and becomes invalid after Destroy.
func (k *SecretKey) Bytes() []byte {
	return k.bytes
}

// ToBase64 returns the key encoded as standard base64.
func (k *SecretKey) ToBase64() string {
	return base64.StdEncoding.EncodeToString(k.bytes)
}

// ToHex returns the key encoded as lowercase hex.
func (k *SecretKey) ToHex() string {
	return hex.EncodeToString(k.bytes)
}

// Destroy zeroes the key material. The key must not be used afterwards.
func (k *SecretKey) Destroy() {
	Zero(k.bytes)
	k.bytes = nil
}

// String implements fmt.Stringer without exposing key material.
func (k *SecretKey) String() string {
	return "SecretKey([REDACTED])"
}

// Format implements fmt.Formatter so that %v, %+v, %#v and %s all redact
// the key material.
func (k *SecretKey) Format(f fmt.State, verb rune) {
	fmt.Fprint(f, k.String())
}
