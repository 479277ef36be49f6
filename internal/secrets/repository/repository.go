// Package repository implements the durable store and audit trail for one-time
// secrets on PostgreSQL and MySQL. Secret rows are physically deleted; audit
// rows reference them by id without a foreign key so they outlive the secret.
package repository

import (
	"time"

	apperrors "github.com/secretdrop/secretdrop/internal/errors"
	secretsDomain "github.com/secretdrop/secretdrop/internal/secrets/domain"
)

// storeError marks a driver error as a store outage while keeping the cause in the chain.
func storeError(err error, message string) error {
	return apperrors.Wrap(apperrors.Join(secretsDomain.ErrStoreUnavailable, err), message)
}

// nullableBytes maps an empty slice to SQL NULL.
func nullableBytes(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}

// nullableString maps an empty string to SQL NULL.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func utcNow() time.Time {
	return time.Now().UTC()
}
