package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// MaxTTLSeconds is the longest lifetime any secret may request. The ttl_seconds
// columns are 32-bit integers, and the bound keeps CreatedAt + TTL inside time.Duration.
const MaxTTLSeconds = math.MaxInt32

// ExpiryCursor is a position in the (ExpiresAt, ID) order used to page through
// expired secrets.
type ExpiryCursor struct {
	ExpiresAt time.Time
	ID        uuid.UUID
}

// Secret is a stored one-time secret. Payload and passphrase are held only as
// ciphertext; an empty EncryptedPassphrase means no passphrase was set.
type Secret struct {
	// ID is the internal identifier assigned by the store on insert.
	ID uuid.UUID
	// AccessKey is the unguessable key handed to the creator.
	AccessKey string
	// EncryptedPayload is the sealed secret value.
	EncryptedPayload []byte
	// EncryptedPassphrase is the sealed delete passphrase, empty when none was set.
	EncryptedPassphrase []byte
	// CreatedAt is the UTC timestamp assigned by the store on insert.
	CreatedAt time.Time
	// TTLSeconds is the requested lifetime, nil for secrets that never expire.
	TTLSeconds *int
	// ExpiresAt is CreatedAt + TTLSeconds, nil when TTLSeconds is nil.
	ExpiresAt *time.Time
}

// Stamp assigns the store-owned fields. ExpiresAt is derived from TTLSeconds.
func (s *Secret) Stamp(id uuid.UUID, now time.Time) {
	s.ID = id
	s.CreatedAt = now.UTC()
	s.ExpiresAt = nil
	if s.TTLSeconds != nil {
		expiresAt := s.CreatedAt.Add(time.Duration(*s.TTLSeconds) * time.Second)
		s.ExpiresAt = &expiresAt
	}
}

// IsExpired reports whether the secret expired strictly before now.
func (s *Secret) IsExpired(now time.Time) bool {
	return s.ExpiresAt != nil && s.ExpiresAt.Before(now)
}

// HasPassphrase reports whether a delete passphrase was set at creation.
func (s *Secret) HasPassphrase() bool {
	return len(s.EncryptedPassphrase) > 0
}

// NewAccessKey generates a random access key.
func NewAccessKey() string {
	return uuid.NewString()
}
