// Package service provides the cryptographic services behind secret values:
// an AES-256-GCM AEAD cipher producing self-describing encrypted payloads,
// and Argon2id password-based key derivation.
package service

import (
	cryptoDomain "github.com/allisson/llm-config/internal/crypto/domain"
)

// Cipher defines the interface for authenticated encryption of secret values.
type Cipher interface {
	// Encrypt encrypts plaintext and returns the persisted payload envelope.
	// A non-empty aadContext is authenticated (not encrypted) and recorded in
	// the envelope so decryption can replay it.
	Encrypt(key *cryptoDomain.SecretKey, plaintext []byte, aadContext string) (*cryptoDomain.EncryptedData, error)

	// Decrypt authenticates and decrypts a payload envelope, replaying any
	// recorded associated-data context.
	Decrypt(key *cryptoDomain.SecretKey, data *cryptoDomain.EncryptedData) ([]byte, error)
}

// KeyDeriver defines the interface for password-based key derivation.
type KeyDeriver interface {
	// DeriveKey derives an encryption key from a password. When salt is nil a
	// fresh random salt is generated. Returns the derived key together with a
	// PHC-encoded verifier string suitable for VerifyPassword.
	DeriveKey(password, salt []byte) (*cryptoDomain.SecretKey, string, error)

	// VerifyPassword reports whether password matches the PHC verifier.
	// It never returns an error; malformed verifiers simply do not match.
	VerifyPassword(password []byte, verifier string) bool
}
