package commands

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	cryptoService "github.com/julianstoll1/access-dashboard/internal/crypto/service"
)

// RunGenerateEncryptionKey generates a cryptographically secure 32-byte key for
// credential encryption. Key material is zeroed from memory after encoding.
//
// When kmsKeyURI is empty the key is printed base64-encoded as-is. When a KMS
// key URI is provided the key is wrapped with the KMS key before output, so
// the plaintext key never appears in the environment.
//
// Output format:
//   - API_KEY_ENCRYPTION_KEY="<base64-encoded-key-or-kms-ciphertext>"
//   - KMS_KEY_URI="<uri>" (KMS mode only)
//
// Security: for production prefer a cloud KMS URI (gcpkms, awskms,
// azurekeyvault, hashivault) over a plaintext key.
func RunGenerateEncryptionKey(ctx context.Context, kmsKeyURI string) error {
	// Generate a cryptographically secure 32-byte key
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return fmt.Errorf("failed to generate encryption key: %w", err)
	}
	defer func() {
		// Zero out the key from memory for security
		for i := range key {
			key[i] = 0
		}
	}()

	if kmsKeyURI == "" {
		encodedKey := base64.StdEncoding.EncodeToString(key)

		fmt.Println("# Credential Encryption Key Configuration (Plaintext Mode)")
		fmt.Println("# Copy this environment variable to your .env file or secrets manager")
		fmt.Println()
		fmt.Printf("API_KEY_ENCRYPTION_KEY=\"%s\"\n", encodedKey)
		fmt.Println()
		fmt.Println("# To wrap the key with a KMS instead, re-run with --kms-key-uri")
		return nil
	}

	fmt.Println("# KMS Mode: Wrapping encryption key with KMS")
	fmt.Println()

	// Create KMS service and open keeper
	kmsService := cryptoService.NewKMSService()
	keeper, err := kmsService.OpenKeeper(ctx, kmsKeyURI)
	if err != nil {
		return fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	defer func() {
		if closeErr := keeper.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close KMS keeper: %v\n", closeErr)
		}
	}()

	// Wrap the key with KMS
	ciphertext, err := keeper.Encrypt(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to wrap encryption key with KMS: %w", err)
	}

	encodedKey := base64.StdEncoding.EncodeToString(ciphertext)

	fmt.Println("# Credential Encryption Key Configuration (KMS Mode)")
	fmt.Println("# Copy these environment variables to your .env file or secrets manager")
	fmt.Println()
	fmt.Printf("KMS_KEY_URI=\"%s\"\n", kmsKeyURI)
	fmt.Printf("API_KEY_ENCRYPTION_KEY=\"%s\"\n", encodedKey)

	return nil
}
