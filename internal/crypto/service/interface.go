// Package service provides the payload encryption used for secrets at rest.
// A CipherBox wraps a single AEAD cipher built from the process-wide key.
package service

import (
	cryptoDomain "github.com/secretdrop/secretdrop/internal/crypto/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext and nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext using the provided nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)

	// NonceSize returns the nonce length produced by Encrypt.
	NonceSize() int
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}

// CipherBox encrypts and decrypts secret payloads and passphrases.
//
// Empty input is the identity for both directions, so an absent optional value
// stays absent instead of becoming the ciphertext of an empty string.
type CipherBox interface {
	Encrypt(plaintext []byte) ([]byte, error)
	Decrypt(ciphertext []byte) ([]byte, error)
}
