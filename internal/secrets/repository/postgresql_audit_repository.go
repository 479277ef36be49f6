package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	apperrors "github.com/secretdrop/secretdrop/internal/errors"
	secretsDomain "github.com/secretdrop/secretdrop/internal/secrets/domain"
)

// PostgreSQLAuditRepository appends audit entries to the secret_logs table in PostgreSQL.
type PostgreSQLAuditRepository struct {
	db *sql.DB
}

// Record appends an audit entry. A missing id is generated.
func (p *PostgreSQLAuditRepository) Record(ctx context.Context, entry *secretsDomain.AuditEntry) error {
	if entry.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return apperrors.Wrap(err, "failed to generate audit entry id")
		}
		entry.ID = id
	}

	query := `INSERT INTO secret_logs (id, secret_id, action, ip_address, user_agent, ttl_seconds, timestamp, additional_info)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := p.db.ExecContext(
		ctx,
		query,
		entry.ID,
		entry.SecretID,
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

// NewPostgreSQLAuditRepository creates a new PostgreSQL audit repository instance.
func NewPostgreSQLAuditRepository(db *sql.DB) *PostgreSQLAuditRepository {
	return &PostgreSQLAuditRepository{db: db}
}
