package domain

import (
	"context"

	"github.com/julianstoll1/access-dashboard/internal/errors"
)

// Cryptographic operation errors.
var (
	// ErrUnsupportedAlgorithm indicates the requested encryption algorithm is not supported.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates the cryptographic key is not exactly 32 bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrDecryptionFailed indicates a decryption operation failed. The specific
	// cause (wrong key, tampered ciphertext, invalid nonce) is deliberately not
	// disclosed to prevent information leakage.
	ErrDecryptionFailed = errors.New("failed to decrypt")
)

// KMSKeeper abstracts a KMS-backed keeper used to unwrap the credential
// encryption key at startup. *secrets.Keeper from gocloud.dev implements it.
type KMSKeeper interface {
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Close() error
}
