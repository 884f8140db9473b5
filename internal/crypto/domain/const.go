package domain

// Algorithm represents the cryptographic algorithm used for encryption.
//
// Only AEAD algorithms are supported, ensuring both confidentiality and
// authenticity of encrypted data. The algorithm name is persisted inside
// every encrypted payload so that stored data remains self-describing.
type Algorithm string

const (
	// AESGCM represents the AES-256-GCM authenticated encryption algorithm.
	//
	// AES-GCM (Advanced Encryption Standard in Galois/Counter Mode) combines
	// AES encryption with GMAC authentication. It uses a 256-bit key and
	// provides excellent performance on hardware with AES-NI acceleration.
	AESGCM Algorithm = "aes-256-gcm"
)

// Sizes for AES-256-GCM. These are fixed by the algorithm and pin the
// persisted payload format, so they must never change.
const (
	// KeySize is the required key length in bytes (256 bits).
	KeySize = 32

	// NonceSize is the GCM nonce length in bytes (96 bits).
	NonceSize = 12

	// TagSize is the length in bytes of the GCM authentication tag appended
	// to the ciphertext.
	TagSize = 16
)
