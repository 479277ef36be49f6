// Package domain defines the types, constants and errors shared by the
// payload encryption layer.
package domain

import (
	"github.com/secretdrop/secretdrop/internal/errors"
)

// Cryptographic operation error definitions.
var (
	// ErrUnsupportedAlgorithm indicates the requested encryption algorithm is not supported.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates the key is not exactly KeySize bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrEncryptionKeyNotSet indicates no encryption key was configured at startup.
	ErrEncryptionKeyNotSet = errors.New("encryption key not set")

	// ErrInvalidEncryptionKeyBase64 indicates the configured key is not valid base64.
	ErrInvalidEncryptionKeyBase64 = errors.New("invalid encryption key base64")

	// ErrDecryptionFailed indicates ciphertext could not be opened: wrong key,
	// truncated input or tampered data. The cause is never disclosed.
	// Surfaced as an internal error, never as invalid input.
	ErrDecryptionFailed = errors.New("decryption failed")
)
