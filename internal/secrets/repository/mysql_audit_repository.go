package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	apperrors "github.com/secretdrop/secretdrop/internal/errors"
	secretsDomain "github.com/secretdrop/secretdrop/internal/secrets/domain"
)

// MySQLAuditRepository appends audit entries to the secret_logs table in MySQL.
type MySQLAuditRepository struct {
	db *sql.DB
}

// Record appends an audit entry. A missing id is generated.
func (m *MySQLAuditRepository) Record(ctx context.Context, entry *secretsDomain.AuditEntry) error {
	if entry.ID == uuid.Nil {
		newID, err := uuid.NewV7()
		if err != nil {
			return apperrors.Wrap(err, "failed to generate audit entry id")
		}
		entry.ID = newID
	}

	id, err := entry.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal audit entry id")
	}

	secretID, err := entry.SecretID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal secret id")
	}

	query := `INSERT INTO secret_logs (id, secret_id, action, ip_address, user_agent, ttl_seconds, timestamp, additional_info)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = m.db.ExecContext(
		ctx,
		query,
		id,
		secretID,
		string(entry.Action),
		nullableString(entry.ClientIP),
		nullableString(entry.UserAgent),
		entry.TTLSeconds,
		entry.Timestamp,
		nullableString(entry.Note),
	)
	if err != nil {
		return storeError(err, "failed to record audit entry")
	}
	return nil
}

// NewMySQLAuditRepository creates a new MySQL audit repository instance.
func NewMySQLAuditRepository(db *sql.DB) *MySQLAuditRepository {
	return &MySQLAuditRepository{db: db}
}
