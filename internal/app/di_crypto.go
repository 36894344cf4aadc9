package app

import (
	"context"
	"encoding/base64"
	"fmt"

	apikeyService "github.com/julianstoll1/access-dashboard/internal/apikey/service"
	cryptoDomain "github.com/julianstoll1/access-dashboard/internal/crypto/domain"
	cryptoService "github.com/julianstoll1/access-dashboard/internal/crypto/service"
)

// KMSService returns the KMS service.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = cryptoService.NewKMSService()
	})
	return c.kmsService
}

// AEADManager returns the AEAD manager service.
func (c *Container) AEADManager() cryptoService.AEADManager {
	c.aeadManagerInit.Do(func() {
		c.aeadManager = cryptoService.NewAEADManager()
	})
	return c.aeadManager
}

// KeyService returns the credential secret generator.
func (c *Container) KeyService() apikeyService.KeyService {
	c.keyServiceInit.Do(func() {
		c.keyService = apikeyService.NewKeyService()
	})
	return c.keyService
}

// KeyCipher returns the credential cipher used for reversible secret storage.
func (c *Container) KeyCipher() (apikeyService.KeyCipher, error) {
	var err error
	c.keyCipherInit.Do(func() {
		c.keyCipher, err = c.initKeyCipher()
		if err != nil {
			c.initErrors["keyCipher"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keyCipher"]; exists {
		return nil, storedErr
	}
	return c.keyCipher, nil
}

// initKeyCipher creates the credential cipher from the configured key material.
func (c *Container) initKeyCipher() (apikeyService.KeyCipher, error) {
	key, err := c.resolveEncryptionKey()
	if err != nil {
		return nil, err
	}

	keyCipher, err := apikeyService.NewKeyCipher(
		c.AEADManager(),
		key,
		cryptoDomain.Algorithm(c.config.APIKeyCipherAlgorithm),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create key cipher: %w", err)
	}

	return keyCipher, nil
}

// resolveEncryptionKey decodes the configured credential encryption key.
// When a KMS key URI is configured the decoded value is treated as a wrapped
// key and unwrapped through the KMS keeper at startup, so the plaintext key
// never lives in the environment.
func (c *Container) resolveEncryptionKey() ([]byte, error) {
	if c.config.APIKeyEncryptionKey == "" {
		return nil, fmt.Errorf("API_KEY_ENCRYPTION_KEY is not set")
	}

	decoded, err := base64.StdEncoding.DecodeString(c.config.APIKeyEncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode api key encryption key: %w", err)
	}

	if c.config.KMSKeyURI == "" {
		return decoded, nil
	}

	ctx := context.Background()
	keeper, err := c.KMSService().OpenKeeper(ctx, c.config.KMSKeyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open kms keeper: %w", err)
	}
	defer func() { _ = keeper.Close() }()

	key, err := keeper.Decrypt(ctx, decoded)
	if err != nil {
		return nil, fmt.Errorf("failed to unwrap api key encryption key: %w", err)
	}

	return key, nil
}
