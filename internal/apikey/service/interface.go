// Package service provides credential secret generation, hashing and encryption.
package service

import (
	"github.com/google/uuid"
)

// KeyService generates raw API key secrets and their one-way lookup hashes.
type KeyService interface {
	// GenerateKey creates a new random secret in the sk_live_<48 hex> format
	// and returns it together with its deterministic lookup hash.
	GenerateKey() (plainKey string, keyHash string, err error)

	// HashKey computes the deterministic lookup hash of a raw secret.
	HashKey(plainKey string) string
}

// KeyCipher encrypts and decrypts the reversible secret representation.
// The owning project id is bound to the ciphertext as associated data so a
// ciphertext cannot be replayed under a different project.
type KeyCipher interface {
	// Encrypt produces the storable ciphertext of a raw secret.
	Encrypt(plainKey string, projectID uuid.UUID) (string, error)

	// Decrypt recovers the raw secret from a stored ciphertext.
	Decrypt(encrypted string, projectID uuid.UUID) (string, error)
}
