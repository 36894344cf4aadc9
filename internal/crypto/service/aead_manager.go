package service

import (
	cryptoDomain "github.com/julianstoll1/access-dashboard/internal/crypto/domain"
)

// AEADManagerService builds AEAD ciphers from a key and an algorithm name.
// It is the single place the algorithm config value is interpreted.
type AEADManagerService struct{}

// NewAEADManager creates a new AEADManagerService.
func NewAEADManager() *AEADManagerService {
	return &AEADManagerService{}
}

// CreateCipher returns an AEAD for the given 256-bit key and algorithm.
// Returns ErrInvalidKeySize or ErrUnsupportedAlgorithm when either input is
// not usable.
func (am *AEADManagerService) CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error) {
	if len(key) != 32 {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	switch alg {
	case cryptoDomain.AESGCM:
		return NewAESGCM(key)
	case cryptoDomain.ChaCha20:
		return NewChaCha20Poly1305(key)
	default:
		return nil, cryptoDomain.ErrUnsupportedAlgorithm
	}
}
