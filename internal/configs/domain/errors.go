package domain

import (
	"github.com/allisson/llm-config/internal/errors"
)

// Configuration store error definitions, mapped to HTTP status codes by the
// error handling layer.
var (
	// ErrEntryNotFound indicates no entry exists for the namespace/key pair
	// in the requested environment.
	ErrEntryNotFound = errors.Wrap(errors.ErrNotFound, "config entry not found")

	// ErrVersionNotFound indicates the requested history version does not exist.
	ErrVersionNotFound = errors.Wrap(errors.ErrNotFound, "version not found")

	// ErrNotASecret indicates a raw secret read was attempted on a plain value.
	ErrNotASecret = errors.Wrap(errors.ErrInvalidInput, "not a secret value")

	// ErrKeyNotConfigured indicates a secret operation was attempted without
	// an encryption key.
	ErrKeyNotConfigured = errors.Wrap(errors.ErrInvalidInput, "encryption key not configured")

	// ErrSecretNotUTF8 indicates a decrypted secret could not be surfaced as
	// a string value.
	ErrSecretNotUTF8 = errors.Wrap(errors.ErrInvalidInput, "decrypted secret is not valid utf-8")
)
