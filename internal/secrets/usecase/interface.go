// Package usecase implements the one-time secret lifecycle: create, read-once,
// passphrase-gated delete and the background purge of expired secrets.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	secretsDomain "github.com/secretdrop/secretdrop/internal/secrets/domain"
)

// SecretRepository defines the durable store operations.
type SecretRepository interface {
	Insert(ctx context.Context, secret *secretsDomain.Secret) error
	FindByKey(ctx context.Context, accessKey string) (*secretsDomain.Secret, error)
	FindPayload(ctx context.Context, secretID uuid.UUID) ([]byte, error)
	// Delete reports whether this call removed the row. It is the only
	// signal used to decide which competing caller wins a secret.
	Delete(ctx context.Context, secretID uuid.UUID) (bool, error)
	// ListExpiredAsOf pages through secrets with expires_at < now in (expires_at, id)
	// order, starting strictly after the cursor when one is given.
	ListExpiredAsOf(
		ctx context.Context,
		now time.Time,
		after *secretsDomain.ExpiryCursor,
		limit int,
	) ([]*secretsDomain.Secret, error)
}

// AuditRepository defines the append-only audit trail.
type AuditRepository interface {
	Record(ctx context.Context, entry *secretsDomain.AuditEntry) error
}

// SecretCache defines the cache mirror. A nil snapshot with a nil error is a miss.
type SecretCache interface {
	Put(ctx context.Context, snapshot *secretsDomain.Snapshot) error
	Get(ctx context.Context, secretID uuid.UUID) (*secretsDomain.Snapshot, error)
	Evict(ctx context.Context, secretID uuid.UUID) error
}

// CreateInput holds the caller-supplied values for a new secret.
type CreateInput struct {
	Payload    []byte
	Passphrase []byte
	TTLSeconds *int
}

// SecretUseCase defines the secret lifecycle business logic.
type SecretUseCase interface {
	// Create stores a new secret and returns its access key.
	Create(ctx context.Context, input CreateInput, meta secretsDomain.RequestMeta) (string, error)
	// Read returns the plaintext and destroys the secret. At most one caller
	// ever receives the plaintext; everyone else gets ErrSecretNotFound.
	//
	// Callers should zero the returned slice after use.
	Read(ctx context.Context, accessKey string, meta secretsDomain.RequestMeta) ([]byte, error)
	// Delete destroys the secret if the passphrase matches the stored one.
	Delete(ctx context.Context, accessKey string, passphrase []byte, meta secretsDomain.RequestMeta) error
}

// Sweeper defines the periodic purge of expired secrets.
type Sweeper interface {
	Start(ctx context.Context) error
	RunOnce(ctx context.Context) (int, error)
}
