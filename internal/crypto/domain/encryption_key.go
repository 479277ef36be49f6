package domain

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
)

// KMSKeeper is the subset of a KMS keeper used to wrap and unwrap the encryption key.
// *gocloud.dev/secrets.Keeper satisfies it.
type KMSKeeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}

// DecodeEncryptionKey decodes a base64 encoded key and checks its size.
// The returned slice must be zeroed by the caller once a cipher has been built from it.
func DecodeEncryptionKey(encoded string) ([]byte, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return nil, ErrEncryptionKeyNotSet
	}

	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncryptionKeyBase64, err)
	}

	if len(key) != KeySize {
		Zero(key)
		return nil, fmt.Errorf("%w: encryption key must be %d bytes, got %d", ErrInvalidKeySize, KeySize, len(key))
	}

	return key, nil
}

// UnwrapEncryptionKey decodes a base64 KMS ciphertext and asks the keeper to decrypt it.
func UnwrapEncryptionKey(ctx context.Context, keeper KMSKeeper, encoded string) ([]byte, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return nil, ErrEncryptionKeyNotSet
	}

	wrapped, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncryptionKeyBase64, err)
	}

	key, err := keeper.Decrypt(ctx, wrapped)
	if err != nil {
		return nil, fmt.Errorf("failed to unwrap encryption key: %w", err)
	}

	if len(key) != KeySize {
		Zero(key)
		return nil, fmt.Errorf("%w: encryption key must be %d bytes, got %d", ErrInvalidKeySize, KeySize, len(key))
	}

	return key, nil
}
