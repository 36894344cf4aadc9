// Package domain defines cryptographic domain types for credential secret encryption.
package domain

// Algorithm represents the AEAD algorithm used for the reversible secret representation.
//
// Both supported algorithms provide Authenticated Encryption with Associated Data,
// use a 256-bit key, a 12-byte nonce and a 16-byte authentication tag. Use AESGCM
// on CPUs with AES-NI hardware acceleration, ChaCha20 elsewhere.
type Algorithm string

const (
	// AESGCM represents the AES-256-GCM authenticated encryption algorithm.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 represents the ChaCha20-Poly1305 authenticated encryption algorithm.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

// ParseAlgorithm converts a configuration string to an Algorithm.
// Returns ErrUnsupportedAlgorithm for unknown values.
func ParseAlgorithm(value string) (Algorithm, error) {
	switch Algorithm(value) {
	case AESGCM:
		return AESGCM, nil
	case ChaCha20:
		return ChaCha20, nil
	default:
		return "", ErrUnsupportedAlgorithm
	}
}
