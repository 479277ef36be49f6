package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/secretdrop/secretdrop/internal/errors"
	secretsDomain "github.com/secretdrop/secretdrop/internal/secrets/domain"
)

// MySQLSecretRepository implements Secret persistence for MySQL databases.
// Identifiers are stored as BINARY(16).
type MySQLSecretRepository struct {
	db  *sql.DB
	now func() time.Time
}

// Insert assigns the id and creation time, then stores the secret.
func (m *MySQLSecretRepository) Insert(ctx context.Context, secret *secretsDomain.Secret) error {
	newID, err := uuid.NewV7()
	if err != nil {
		return apperrors.Wrap(err, "failed to generate secret id")
	}
	secret.Stamp(newID, m.now())

	id, err := secret.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal secret id")
	}

	query := `INSERT INTO secrets (id, access_key, encrypted_payload, encrypted_passphrase, created_at, ttl_seconds, expires_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err = m.db.ExecContext(
		ctx,
		query,
		id,
		secret.AccessKey,
		secret.EncryptedPayload,
		nullableBytes(secret.EncryptedPassphrase),
		secret.CreatedAt,
		secret.TTLSeconds,
		secret.ExpiresAt,
	)
	if err != nil {
		return storeError(err, "failed to insert secret")
	}
	return nil
}

// FindByKey returns the secret metadata for an access key. The payload is not loaded.
func (m *MySQLSecretRepository) FindByKey(
	ctx context.Context,
	accessKey string,
) (*secretsDomain.Secret, error) {
	query := `SELECT id, access_key, encrypted_passphrase, created_at, ttl_seconds, expires_at
			  FROM secrets
			  WHERE access_key = ?`

	secret, err := scanMySQLSecret(m.db.QueryRowContext(ctx, query, accessKey))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, secretsDomain.ErrSecretNotFound
		}
		return nil, storeError(err, "failed to find secret by key")
	}
	return secret, nil
}

// FindPayload returns the encrypted payload of a secret.
func (m *MySQLSecretRepository) FindPayload(ctx context.Context, secretID uuid.UUID) ([]byte, error) {
	id, err := secretID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal secret id")
	}

	var payload []byte
	err = m.db.QueryRowContext(ctx, `SELECT encrypted_payload FROM secrets WHERE id = ?`, id).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, secretsDomain.ErrSecretNotFound
		}
		return nil, storeError(err, "failed to find secret payload")
	}
	return payload, nil
}

// Delete removes a secret and reports whether this call removed it.
func (m *MySQLSecretRepository) Delete(ctx context.Context, secretID uuid.UUID) (bool, error) {
	id, err := secretID.MarshalBinary()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to marshal secret id")
	}

	result, err := m.db.ExecContext(ctx, `DELETE FROM secrets WHERE id = ?`, id)
	if err != nil {
		return false, storeError(err, "failed to delete secret")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, storeError(err, "failed to read affected rows")
	}
	return affected > 0, nil
}

// ListExpiredAsOf returns up to limit secrets whose deadline passed before now, ordered
// by (expires_at, id) and starting strictly after the cursor when one is given.
func (m *MySQLSecretRepository) ListExpiredAsOf(
	ctx context.Context,
	now time.Time,
	after *secretsDomain.ExpiryCursor,
	limit int,
) ([]*secretsDomain.Secret, error) {
	query := `SELECT id, access_key, encrypted_passphrase, created_at, ttl_seconds, expires_at
			  FROM secrets
			  WHERE expires_at IS NOT NULL AND expires_at < ?`
	args := []any{now}
	if after != nil {
		afterID, err := after.ID.MarshalBinary()
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to marshal cursor id")
		}
		query += ` AND (expires_at, id) > (?, ?)`
		args = append(args, after.ExpiresAt, afterID)
	}
	query += ` ORDER BY expires_at, id LIMIT ?`
	args = append(args, limit)

	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeError(err, "failed to list expired secrets")
	}
	defer func() {
		_ = rows.Close()
	}()

	secrets := make([]*secretsDomain.Secret, 0)
	for rows.Next() {
		secret, err := scanMySQLSecret(rows)
		if err != nil {
			return nil, storeError(err, "failed to scan expired secret")
		}
		secrets = append(secrets, secret)
	}

	if err := rows.Err(); err != nil {
		return nil, storeError(err, "failed to iterate expired secrets")
	}

	return secrets, nil
}

// Ping checks that the database is reachable.
func (m *MySQLSecretRepository) Ping(ctx context.Context) error {
	if err := m.db.PingContext(ctx); err != nil {
		return storeError(err, "failed to ping database")
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMySQLSecret(row rowScanner) (*secretsDomain.Secret, error) {
	var secret secretsDomain.Secret
	var id []byte

	if err := row.Scan(
		&id,
		&secret.AccessKey,
		&secret.EncryptedPassphrase,
		&secret.CreatedAt,
		&secret.TTLSeconds,
		&secret.ExpiresAt,
	); err != nil {
		return nil, err
	}

	if err := secret.ID.UnmarshalBinary(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal secret id")
	}
	return &secret, nil
}

// NewMySQLSecretRepository creates a new MySQL Secret repository instance.
func NewMySQLSecretRepository(db *sql.DB) *MySQLSecretRepository {
	return &MySQLSecretRepository{db: db, now: utcNow}
}
