package service

import (
	"encoding/base64"

	"github.com/google/uuid"

	cryptoDomain "github.com/julianstoll1/access-dashboard/internal/crypto/domain"
	cryptoService "github.com/julianstoll1/access-dashboard/internal/crypto/service"
	apperrors "github.com/julianstoll1/access-dashboard/internal/errors"
)

// keyCipher implements KeyCipher over an AEAD cipher.
// Stored form is base64(nonce || ciphertext); the AAD is the project id, so
// decryption fails if a ciphertext is looked up under the wrong project.
type keyCipher struct {
	aead cryptoService.AEAD
}

// NewKeyCipher creates a KeyCipher from the injected encryption key.
// The key comes from process configuration (optionally KMS-unwrapped) and is
// passed in explicitly so environments and tests can use distinct keys.
func NewKeyCipher(
	aeadManager cryptoService.AEADManager,
	key []byte,
	alg cryptoDomain.Algorithm,
) (KeyCipher, error) {
	aead, err := aeadManager.CreateCipher(key, alg)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create key cipher")
	}
	return &keyCipher{aead: aead}, nil
}

// Encrypt produces the storable ciphertext of a raw secret.
func (c *keyCipher) Encrypt(plainKey string, projectID uuid.UUID) (string, error) {
	ciphertext, nonce, err := c.aead.Encrypt([]byte(plainKey), projectID[:])
	if err != nil {
		return "", apperrors.Wrap(err, "failed to encrypt key")
	}

	return base64.StdEncoding.EncodeToString(append(nonce, ciphertext...)), nil
}

// Decrypt recovers the raw secret from a stored ciphertext.
// Returns ErrDecryptionFailed for corrupt or foreign ciphertexts.
func (c *keyCipher) Decrypt(encrypted string, projectID uuid.UUID) (string, error) {
	blob, err := base64.StdEncoding.DecodeString(encrypted)
	if err != nil {
		return "", cryptoDomain.ErrDecryptionFailed
	}

	// Both supported AEADs use a 12-byte nonce
	const nonceSize = 12
	if len(blob) <= nonceSize {
		return "", cryptoDomain.ErrDecryptionFailed
	}

	plaintext, err := c.aead.Decrypt(blob[nonceSize:], blob[:nonceSize], projectID[:])
	if err != nil {
		return "", cryptoDomain.ErrDecryptionFailed
	}

	return string(plaintext), nil
}
