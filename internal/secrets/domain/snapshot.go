package domain

import (
	"time"

	"github.com/google/uuid"
)

// Snapshot is the cached copy of a secret. It carries ciphertext only and is
// never authoritative for existence.
type Snapshot struct {
	ID                  uuid.UUID  `json:"id"`
	AccessKey           string     `json:"secret_key"`
	EncryptedPayload    []byte     `json:"secret"`
	EncryptedPassphrase []byte     `json:"passphrase,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	TTLSeconds          *int       `json:"ttl_seconds,omitempty"`
	ExpiresAt           *time.Time `json:"expires_at,omitempty"`
}

// NewSnapshot copies a secret into its cached form.
func NewSnapshot(s *Secret) *Snapshot {
	return &Snapshot{
		ID:                  s.ID,
		AccessKey:           s.AccessKey,
		EncryptedPayload:    s.EncryptedPayload,
		EncryptedPassphrase: s.EncryptedPassphrase,
		CreatedAt:           s.CreatedAt,
		TTLSeconds:          s.TTLSeconds,
		ExpiresAt:           s.ExpiresAt,
	}
}

// Secret converts the snapshot back into a Secret.
func (s *Snapshot) Secret() *Secret {
	return &Secret{
		ID:                  s.ID,
		AccessKey:           s.AccessKey,
		EncryptedPayload:    s.EncryptedPayload,
		EncryptedPassphrase: s.EncryptedPassphrase,
		CreatedAt:           s.CreatedAt,
		TTLSeconds:          s.TTLSeconds,
		ExpiresAt:           s.ExpiresAt,
	}
}
