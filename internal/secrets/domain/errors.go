// Package domain defines core domain models and errors for one-time secrets.
package domain

import (
	"github.com/secretdrop/secretdrop/internal/errors"
)

// Secret-specific error definitions.
var (
	// ErrSecretNotFound indicates no live secret exists for the access key.
	// Missing, already consumed and expired secrets are indistinguishable.
	ErrSecretNotFound = errors.Wrap(errors.ErrNotFound, "secret not found")

	// ErrPassphraseMismatch indicates the delete passphrase was missing or wrong.
	ErrPassphraseMismatch = errors.Wrap(errors.ErrForbidden, "passphrase mismatch")

	// ErrStoreUnavailable indicates the durable store could not be reached.
	ErrStoreUnavailable = errors.Wrap(errors.ErrUnavailable, "secret store unavailable")

	// ErrCacheDegraded indicates a cache operation failed. It is logged and
	// never returned to callers of the secret use case.
	ErrCacheDegraded = errors.New("cache degraded")

	// ErrEmptyPayload indicates a create request carried no secret.
	ErrEmptyPayload = errors.Wrap(errors.ErrInvalidInput, "secret cannot be empty")

	// ErrPayloadTooLarge indicates the secret exceeds the configured size limit.
	ErrPayloadTooLarge = errors.Wrap(errors.ErrInvalidInput, "secret exceeds maximum size")

	// ErrInvalidTTL indicates a TTL that is not positive or exceeds the configured maximum.
	ErrInvalidTTL = errors.Wrap(errors.ErrInvalidInput, "invalid ttl")
)
