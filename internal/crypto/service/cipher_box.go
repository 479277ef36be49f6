package service

import (
	cryptoDomain "github.com/secretdrop/secretdrop/internal/crypto/domain"
)

// cipherBox seals values as nonce||ciphertext||tag under a single AEAD.
type cipherBox struct {
	aead AEAD
}

// NewCipherBox builds a CipherBox for the given key and algorithm. The key is only
// needed during construction; callers should zero it afterwards.
func NewCipherBox(manager AEADManager, key []byte, alg cryptoDomain.Algorithm) (CipherBox, error) {
	aead, err := manager.CreateCipher(key, alg)
	if err != nil {
		return nil, err
	}
	return &cipherBox{aead: aead}, nil
}

// Encrypt seals plaintext. Empty input is returned unchanged.
func (b *cipherBox) Encrypt(plaintext []byte) ([]byte, error) {
	if len(plaintext) == 0 {
		return plaintext, nil
	}

	ciphertext, nonce, err := b.aead.Encrypt(plaintext, nil)
	if err != nil {
		return nil, err
	}

	sealed := make([]byte, 0, len(nonce)+len(ciphertext))
	sealed = append(sealed, nonce...)
	sealed = append(sealed, ciphertext...)
	return sealed, nil
}

// Decrypt opens a value produced by Encrypt. Empty input is returned unchanged;
// anything else that fails authentication yields ErrDecryptionFailed and no data.
func (b *cipherBox) Decrypt(sealed []byte) ([]byte, error) {
	if len(sealed) == 0 {
		return sealed, nil
	}

	nonceSize := b.aead.NonceSize()
	if len(sealed) <= nonceSize {
		return nil, cryptoDomain.ErrDecryptionFailed
	}

	plaintext, err := b.aead.Decrypt(sealed[nonceSize:], sealed[:nonceSize], nil)
	if err != nil {
		return nil, cryptoDomain.ErrDecryptionFailed
	}
	return plaintext, nil
}
