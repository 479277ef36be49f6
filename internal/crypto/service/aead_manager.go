package service

import (
	cryptoDomain "github.com/secretdrop/secretdrop/internal/crypto/domain"
)

// AEADManagerService builds AEAD ciphers from raw key material.
type AEADManagerService struct{}

func NewAEADManager() *AEADManagerService {
	return &AEADManagerService{}
}

// CreateCipher returns ErrInvalidKeySize unless key is KeySize bytes, and
// ErrUnsupportedAlgorithm for anything other than AESGCM or ChaCha20.
func (am *AEADManagerService) CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error) {
	if len(key) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}
	c, err := newAEADCipher(key, alg)
	if err != nil {
		return nil, err
	}
	return c, nil
}
