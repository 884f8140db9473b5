package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"

	cryptoDomain "github.com/allisson/llm-config/internal/crypto/domain"
	"github.com/allisson/llm-config/internal/errors"
)

// AESGCMCipher implements the Cipher interface using AES-256-GCM
// (Advanced Encryption Standard with Galois/Counter Mode).
//
// AES-GCM provides authenticated encryption with associated data (AEAD), combining
// the confidentiality of AES encryption with the authenticity of GMAC. This
// implementation uses AES-256 with a 256-bit key.
//
// Security properties:
//   - 256-bit key size
//   - 12-byte nonce (96 bits, randomly generated per encryption)
//   - 16-byte authentication tag (128 bits, appended to ciphertext)
//   - Authenticated encryption prevents tampering and forgery
//
// Thread safety:
//
//	The cipher instance is stateless and safe for concurrent use from multiple
//	goroutines. Each encryption operation generates a unique nonce independently.
type AESGCMCipher struct{}

// NewAESGCMCipher creates a new AES-256-GCM cipher instance.
func NewAESGCMCipher() *AESGCMCipher {
	return &AESGCMCipher{}
}

// GenerateKey creates a new random AES-256 key from the system entropy source.
func GenerateKey() (*cryptoDomain.SecretKey, error) {
	raw := make([]byte, cryptoDomain.KeySize)
	if _, err := rand.Read(raw); err != nil {
		return nil, errors.Wrap(cryptoDomain.ErrKeyGenerationFailed, err.Error())
	}
	defer cryptoDomain.Zero(raw)
	return cryptoDomain.NewSecretKey(raw)
}

// Encrypt encrypts plaintext using AES-256-GCM and returns the payload envelope.
//
// A unique 12-byte nonce is randomly generated for each call using crypto/rand
// and stored in the envelope. With GCM it is critical that nonces are never
// reused with the same key, which random generation makes negligible.
//
// A non-empty aadContext is authenticated but not encrypted, binding the
// ciphertext to its context (e.g. a storage location) so it cannot be replayed
// elsewhere even if intercepted. The context is recorded in the envelope and
// must be intact for decryption to succeed.
func (a *AESGCMCipher) Encrypt(key *cryptoDomain.SecretKey, plaintext []byte, aadContext string) (*cryptoDomain.EncryptedData, error) {
	aead, err := newAEAD(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, cryptoDomain.NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, errors.Wrap(cryptoDomain.ErrEncryptionFailed, "failed to generate nonce")
	}

	var aad []byte
	var aadPtr *string
	if aadContext != "" {
		aad = []byte(aadContext)
		aadPtr = &aadContext
	}

	ciphertext := aead.Seal(nil, nonce, plaintext, aad)
	return &cryptoDomain.EncryptedData{
		Algorithm:  cryptoDomain.AESGCM,
		Nonce:      nonce,
		Ciphertext: ciphertext,
		KeyVersion: 1,
		AADContext: aadPtr,
	}, nil
}

// Decrypt authenticates and decrypts a payload envelope.
//
// The authentication tag is verified before any plaintext is returned, so a
// tampered ciphertext, a wrong key, or a stripped associated-data context all
// fail with ErrDecryptionFailed. The specific cause is deliberately not
// disclosed.
func (a *AESGCMCipher) Decrypt(key *cryptoDomain.SecretKey, data *cryptoDomain.EncryptedData) ([]byte, error) {
	if data.Algorithm != cryptoDomain.AESGCM {
		return nil, errors.Wrapf(cryptoDomain.ErrDecryptionFailed, "unknown algorithm %q", data.Algorithm)
	}
	if len(data.Nonce) != cryptoDomain.NonceSize {
		return nil, errors.Wrapf(cryptoDomain.ErrInvalidNonceSize, "expected %d bytes, got %d", cryptoDomain.NonceSize, len(data.Nonce))
	}

	aead, err := newAEAD(key)
	if err != nil {
		return nil, err
	}

	var aad []byte
	if data.AADContext != nil {
		aad = []byte(*data.AADContext)
	}

	plaintext, err := aead.Open(nil, data.Nonce, data.Ciphertext, aad)
	if err != nil {
		return nil, cryptoDomain.ErrDecryptionFailed
	}
	return plaintext, nil
}

func newAEAD(key *cryptoDomain.SecretKey) (cipher.AEAD, error) {
	if len(key.Bytes()) != cryptoDomain.KeySize {
		return nil, errors.Wrapf(cryptoDomain.ErrInvalidKeySize, "expected %d bytes, got %d", cryptoDomain.KeySize, len(key.Bytes()))
	}

	block, err := aes.NewCipher(key.Bytes())
	if err != nil {
		return nil, errors.Wrap(cryptoDomain.ErrEncryptionFailed, err.Error())
	}

	return cipher.NewGCM(block)
}
