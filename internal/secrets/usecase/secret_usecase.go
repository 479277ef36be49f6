package usecase

import (
	"context"
	"crypto/subtle"
	"log/slog"

	cryptoDomain "github.com/secretdrop/secretdrop/internal/crypto/domain"
	cryptoService "github.com/secretdrop/secretdrop/internal/crypto/service"
	apperrors "github.com/secretdrop/secretdrop/internal/errors"
	secretsDomain "github.com/secretdrop/secretdrop/internal/secrets/domain"
)

// Limits bounds what callers may store. Zero disables a limit; TTLs are still
// capped at secretsDomain.MaxTTLSeconds.
type Limits struct {
	MaxPayloadBytes int
	MaxTTLSeconds   int
}

// secretUseCase implements the SecretUseCase interface.
type secretUseCase struct {
	*lifecycle
	cipher cryptoService.CipherBox
	limits Limits
}

// NewSecretUseCase creates a new SecretUseCase.
func NewSecretUseCase(
	secretRepo SecretRepository,
	auditRepo AuditRepository,
	cache SecretCache,
	cipher cryptoService.CipherBox,
	limits Limits,
	logger *slog.Logger,
) SecretUseCase {
	return &secretUseCase{
		lifecycle: newLifecycle(secretRepo, auditRepo, cache, logger),
		cipher:    cipher,
		limits:    limits,
	}
}

// Create encrypts and persists a secret, then writes the audit entry and the cache snapshot.
// Only the insert can fail the call.
func (s *secretUseCase) Create(
	ctx context.Context,
	input CreateInput,
	meta secretsDomain.RequestMeta,
) (string, error) {
	if err := s.validate(input); err != nil {
		return "", err
	}

	encryptedPayload, err := s.cipher.Encrypt(input.Payload)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to encrypt secret")
	}

	encryptedPassphrase, err := s.cipher.Encrypt(input.Passphrase)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to encrypt passphrase")
	}

	secret := &secretsDomain.Secret{
		AccessKey:           secretsDomain.NewAccessKey(),
		EncryptedPayload:    encryptedPayload,
		EncryptedPassphrase: encryptedPassphrase,
		TTLSeconds:          input.TTLSeconds,
	}

	if err := s.secretRepo.Insert(ctx, secret); err != nil {
		return "", err
	}

	ctx = context.WithoutCancel(ctx)
	s.audit(ctx, secret, secretsDomain.ActionCreate, "", meta)
	if err := s.cache.Put(ctx, secretsDomain.NewSnapshot(secret)); err != nil {
		s.cacheDegraded(secret, "put", err)
	}

	return secret.AccessKey, nil
}

// Read decrypts the secret and deletes it. The plaintext is returned only when
// this call's delete removed the row.
func (s *secretUseCase) Read(
	ctx context.Context,
	accessKey string,
	meta secretsDomain.RequestMeta,
) ([]byte, error) {
	secret, err := s.findLive(ctx, accessKey, meta)
	if err != nil {
		return nil, err
	}

	payload, err := s.loadPayload(ctx, secret)
	if err != nil {
		return nil, err
	}

	plaintext, err := s.cipher.Decrypt(payload)
	if err != nil {
		s.logger.Error("failed to decrypt secret",
			slog.String("secret_id", secret.ID.String()),
			slog.Any("error", err),
		)
		return nil, err
	}

	deleted, err := s.purge(ctx, secret, secretsDomain.ActionRead, "", meta)
	if err != nil {
		cryptoDomain.Zero(plaintext)
		return nil, err
	}
	if !deleted {
		cryptoDomain.Zero(plaintext)
		return nil, secretsDomain.ErrSecretNotFound
	}

	return plaintext, nil
}

// Delete destroys the secret when the passphrase gate allows it. A wrong or
// missing passphrase leaves the secret untouched.
func (s *secretUseCase) Delete(
	ctx context.Context,
	accessKey string,
	passphrase []byte,
	meta secretsDomain.RequestMeta,
) error {
	secret, err := s.findLive(ctx, accessKey, meta)
	if err != nil {
		return err
	}

	if secret.HasPassphrase() {
		if err := s.checkPassphrase(secret, passphrase); err != nil {
			return err
		}
	}

	deleted, err := s.purge(ctx, secret, secretsDomain.ActionDelete, "", meta)
	if err != nil {
		return err
	}
	if !deleted {
		return secretsDomain.ErrSecretNotFound
	}
	return nil
}

// findLive looks the secret up and purges it when its deadline has passed.
// Missing and expired secrets both yield ErrSecretNotFound.
func (s *secretUseCase) findLive(
	ctx context.Context,
	accessKey string,
	meta secretsDomain.RequestMeta,
) (*secretsDomain.Secret, error) {
	secret, err := s.secretRepo.FindByKey(ctx, accessKey)
	if err != nil {
		return nil, err
	}

	if secret.IsExpired(s.now()) {
		if _, err := s.purge(
			ctx, secret, secretsDomain.ActionExpiredAccess, secretsDomain.NoteExpiredAccess, meta,
		); err != nil {
			return nil, err
		}
		return nil, secretsDomain.ErrSecretNotFound
	}

	return secret, nil
}

// loadPayload takes the ciphertext from the cache snapshot when it matches, else from the store.
func (s *secretUseCase) loadPayload(ctx context.Context, secret *secretsDomain.Secret) ([]byte, error) {
	snapshot, err := s.cache.Get(ctx, secret.ID)
	if err != nil {
		s.cacheDegraded(secret, "get", err)
	}
	if snapshot != nil && snapshot.AccessKey == secret.AccessKey && len(snapshot.EncryptedPayload) > 0 {
		return snapshot.EncryptedPayload, nil
	}

	return s.secretRepo.FindPayload(ctx, secret.ID)
}

func (s *secretUseCase) checkPassphrase(secret *secretsDomain.Secret, supplied []byte) error {
	if len(supplied) == 0 {
		return secretsDomain.ErrPassphraseMismatch
	}

	stored, err := s.cipher.Decrypt(secret.EncryptedPassphrase)
	if err != nil {
		return apperrors.Wrap(err, "failed to decrypt passphrase")
	}
	defer cryptoDomain.Zero(stored)

	if subtle.ConstantTimeCompare(stored, supplied) != 1 {
		return secretsDomain.ErrPassphraseMismatch
	}
	return nil
}

func (s *secretUseCase) validate(input CreateInput) error {
	if len(input.Payload) == 0 {
		return secretsDomain.ErrEmptyPayload
	}
	if s.limits.MaxPayloadBytes > 0 && len(input.Payload) > s.limits.MaxPayloadBytes {
		return secretsDomain.ErrPayloadTooLarge
	}
	if input.TTLSeconds != nil {
		if *input.TTLSeconds <= 0 {
			return apperrors.Wrap(secretsDomain.ErrInvalidTTL, "ttl_seconds must be positive")
		}
		if maxTTL := s.maxTTLSeconds(); *input.TTLSeconds > maxTTL {
			return apperrors.Wrapf(secretsDomain.ErrInvalidTTL, "ttl_seconds must not exceed %d", maxTTL)
		}
	}
	return nil
}

// maxTTLSeconds is the configured limit, never above secretsDomain.MaxTTLSeconds.
func (s *secretUseCase) maxTTLSeconds() int {
	if s.limits.MaxTTLSeconds > 0 && s.limits.MaxTTLSeconds < secretsDomain.MaxTTLSeconds {
		return s.limits.MaxTTLSeconds
	}
	return secretsDomain.MaxTTLSeconds
}
