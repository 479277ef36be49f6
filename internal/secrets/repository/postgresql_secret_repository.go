package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/secretdrop/secretdrop/internal/errors"
	secretsDomain "github.com/secretdrop/secretdrop/internal/secrets/domain"
)

// PostgreSQLSecretRepository implements Secret persistence for PostgreSQL databases.
type PostgreSQLSecretRepository struct {
	db  *sql.DB
	now func() time.Time
}

// Insert assigns the id and creation time, then stores the secret.
func (p *PostgreSQLSecretRepository) Insert(ctx context.Context, secret *secretsDomain.Secret) error {
	id, err := uuid.NewV7()
	if err != nil {
		return apperrors.Wrap(err, "failed to generate secret id")
	}
	secret.Stamp(id, p.now())

	query := `INSERT INTO secrets (id, access_key, encrypted_payload, encrypted_passphrase, created_at, ttl_seconds, expires_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = p.db.ExecContext(
		ctx,
		query,
		secret.ID,
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
func (p *PostgreSQLSecretRepository) FindByKey(
	ctx context.Context,
	accessKey string,
) (*secretsDomain.Secret, error) {
	query := `SELECT id, access_key, encrypted_passphrase, created_at, ttl_seconds, expires_at
			  FROM secrets
			  WHERE access_key = $1`

	var secret secretsDomain.Secret
	err := p.db.QueryRowContext(ctx, query, accessKey).Scan(
		&secret.ID,
		&secret.AccessKey,
		&secret.EncryptedPassphrase,
		&secret.CreatedAt,
		&secret.TTLSeconds,
		&secret.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, secretsDomain.ErrSecretNotFound
		}
		return nil, storeError(err, "failed to find secret by key")
	}

	return &secret, nil
}

// FindPayload returns the encrypted payload of a secret.
func (p *PostgreSQLSecretRepository) FindPayload(ctx context.Context, secretID uuid.UUID) ([]byte, error) {
	query := `SELECT encrypted_payload FROM secrets WHERE id = $1`

	var payload []byte
	if err := p.db.QueryRowContext(ctx, query, secretID).Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, secretsDomain.ErrSecretNotFound
		}
		return nil, storeError(err, "failed to find secret payload")
	}
	return payload, nil
}

// Delete removes a secret and reports whether this call removed it.
// Deleting an id that is already gone returns false and no error.
func (p *PostgreSQLSecretRepository) Delete(ctx context.Context, secretID uuid.UUID) (bool, error) {
	result, err := p.db.ExecContext(ctx, `DELETE FROM secrets WHERE id = $1`, secretID)
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
func (p *PostgreSQLSecretRepository) ListExpiredAsOf(
	ctx context.Context,
	now time.Time,
	after *secretsDomain.ExpiryCursor,
	limit int,
) ([]*secretsDomain.Secret, error) {
	query := `SELECT id, access_key, encrypted_passphrase, created_at, ttl_seconds, expires_at
			  FROM secrets
			  WHERE expires_at IS NOT NULL AND expires_at < $1`
	args := []any{now}
	if after != nil {
		query += ` AND (expires_at, id) > ($2, $3)`
		args = append(args, after.ExpiresAt, after.ID)
	}
	query += fmt.Sprintf(` ORDER BY expires_at, id LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeError(err, "failed to list expired secrets")
	}
	defer func() {
		_ = rows.Close()
	}()

	secrets := make([]*secretsDomain.Secret, 0)
	for rows.Next() {
		var secret secretsDomain.Secret
		if err := rows.Scan(
			&secret.ID,
			&secret.AccessKey,
			&secret.EncryptedPassphrase,
			&secret.CreatedAt,
			&secret.TTLSeconds,
			&secret.ExpiresAt,
		); err != nil {
			return nil, storeError(err, "failed to scan expired secret")
		}
		secrets = append(secrets, &secret)
	}

	if err := rows.Err(); err != nil {
		return nil, storeError(err, "failed to iterate expired secrets")
	}

	return secrets, nil
}

// Ping checks that the database is reachable.
func (p *PostgreSQLSecretRepository) Ping(ctx context.Context) error {
	if err := p.db.PingContext(ctx); err != nil {
		return storeError(err, "failed to ping database")
	}
	return nil
}

// NewPostgreSQLSecretRepository creates a new PostgreSQL Secret repository instance.
func NewPostgreSQLSecretRepository(db *sql.DB) *PostgreSQLSecretRepository {
	return &PostgreSQLSecretRepository{db: db, now: utcNow}
}
