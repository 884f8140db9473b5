package service

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"

	cryptoDomain "github.com/allisson/llm-config/internal/crypto/domain"
	"github.com/allisson/llm-config/internal/errors"
)

// Argon2id parameters. Changing them would invalidate previously issued
// verifier strings, so they are fixed.
const (
	argonMemoryKiB  = 64 * 1024
	argonIterations = 3
	argonThreads    = 4
	argonSaltSize   = 16
)

// Argon2Deriver implements the KeyDeriver interface using Argon2id, the
// hybrid variant recommended for password hashing (RFC 9106).
type Argon2Deriver struct{}

// NewArgon2Deriver creates a new Argon2id key deriver.
func NewArgon2Deriver() *Argon2Deriver {
	return &Argon2Deriver{}
}

// DeriveKey derives a 32-byte encryption key from a password.
//
// When salt is nil a fresh 16-byte random salt is generated, so two calls
// with the same password yield different keys. Passing the salt parsed from
// a previous verifier reproduces the same key deterministically.
//
// The returned verifier is a standard PHC string
// ($argon2id$v=19$m=...,t=...,p=...$salt$hash) that can later be checked
// with VerifyPassword without exposing the derived key.
func (d *Argon2Deriver) DeriveKey(password, salt []byte) (*cryptoDomain.SecretKey, string, error) {
	if len(password) == 0 {
		return nil, "", errors.Wrap(errors.ErrInvalidInput, "password must not be empty")
	}

	if salt == nil {
		salt = make([]byte, argonSaltSize)
		if _, err := rand.Read(salt); err != nil {
			return nil, "", errors.Wrap(cryptoDomain.ErrKeyGenerationFailed, "failed to generate salt")
		}
	}

	raw := argon2.IDKey(password, salt, argonIterations, argonMemoryKiB, argonThreads, cryptoDomain.KeySize)
	defer cryptoDomain.Zero(raw)

	key, err := cryptoDomain.NewSecretKey(raw)
	if err != nil {
		return nil, "", err
	}

	verifier := fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argonMemoryKiB,
		argonIterations,
		argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(raw),
	)

	return key, verifier, nil
}

// VerifyPassword reports whether password matches a PHC verifier produced by
// DeriveKey. Comparison of the recomputed hash is constant-time. Malformed
// verifiers and wrong passwords both return false; no error is ever surfaced
// to avoid turning parse failures into an oracle.
func (d *Argon2Deriver) VerifyPassword(password []byte, verifier string) bool {
	salt, hash, params, ok := parseVerifier(verifier)
	if !ok {
		return false
	}

	computed := argon2.IDKey(password, salt, params.iterations, params.memoryKiB, params.threads, uint32(len(hash)))
	defer cryptoDomain.Zero(computed)

	return subtle.ConstantTimeCompare(computed, hash) == 1
}

type argonParams struct {
	memoryKiB  uint32
	iterations uint32
	threads    uint8
}

func parseVerifier(verifier string) (salt, hash []byte, params argonParams, ok bool) {
	parts := strings.Split(verifier, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return nil, nil, params, false
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return nil, nil, params, false
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.memoryKiB, &params.iterations, &params.threads); err != nil {
		return nil, nil, params, false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, nil, params, false
	}

	hash, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(hash) == 0 {
		return nil, nil, params, false
	}

	return salt, hash, params, true
}
