package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"

	apperrors "github.com/julianstoll1/access-dashboard/internal/errors"
)

// KeyPrefix identifies raw API key secrets on the wire.
const KeyPrefix = "sk_live_"

// keyEntropyBytes is the number of random bytes behind each secret (48 hex chars).
const keyEntropyBytes = 24

// keyService implements KeyService using SHA-256 for the lookup hash.
// SHA-256 is deterministic, which is what allows authenticate to find the row
// by hash; the secret itself carries 192 bits of entropy so no salt is needed.
type keyService struct{}

// GenerateKey creates a new cryptographically secure secret in the
// sk_live_<48 hex> format and returns it with its SHA-256 lookup hash.
func (k *keyService) GenerateKey() (plainKey string, keyHash string, err error) {
	randomBytes := make([]byte, keyEntropyBytes)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", "", apperrors.Wrap(err, "failed to generate random key")
	}

	plainKey = KeyPrefix + hex.EncodeToString(randomBytes)
	keyHash = k.HashKey(plainKey)

	return plainKey, keyHash, nil
}

// HashKey hashes a raw secret using SHA-256.
// Returns the hash as a hexadecimal string.
func (k *keyService) HashKey(plainKey string) string {
	hash := sha256.Sum256([]byte(plainKey))
	return hex.EncodeToString(hash[:])
}

// NewKeyService creates a new KeyService instance.
func NewKeyService() KeyService {
	return &keyService{}
}
