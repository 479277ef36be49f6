package app

import (
	"context"
	"fmt"

	cryptoDomain "github.com/secretdrop/secretdrop/internal/crypto/domain"
	cryptoService "github.com/secretdrop/secretdrop/internal/crypto/service"
)

// AEADManager returns the AEAD manager service.
func (c *Container) AEADManager() cryptoService.AEADManager {
	c.aeadManagerInit.Do(func() {
		c.aeadManager = cryptoService.NewAEADManager()
	})
	return c.aeadManager
}

// KMSService returns the KMS service used to unwrap the encryption key.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = cryptoService.NewKMSService()
	})
	return c.kmsService
}

// CipherBox returns the payload cipher built from ENCRYPTION_KEY.
func (c *Container) CipherBox() (cryptoService.CipherBox, error) {
	var err error
	c.cipherBoxInit.Do(func() {
		c.cipherBox, err = c.initCipherBox()
		if err != nil {
			c.setInitError("cipherBox", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("cipherBox"); storedErr != nil {
		return nil, storedErr
	}
	return c.cipherBox, nil
}

// initCipherBox loads the key (unwrapping it through KMS when KMS_KEY_URI is set), builds
// the cipher and zeroes the raw key.
func (c *Container) initCipherBox() (cryptoService.CipherBox, error) {
	algorithm, err := cryptoDomain.ParseAlgorithm(c.config.EncryptionAlgorithm)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), initTimeout)
	defer cancel()

	key, err := cryptoService.LoadEncryptionKey(ctx, c.KMSService(), c.config.EncryptionKey, c.config.KMSKeyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to load encryption key: %w", err)
	}
	defer cryptoDomain.Zero(key)

	return cryptoService.NewCipherBox(c.AEADManager(), key, algorithm)
}
