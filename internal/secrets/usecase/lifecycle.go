package usecase

import (
	"context"
	"log/slog"
	"time"

	secretsDomain "github.com/secretdrop/secretdrop/internal/secrets/domain"
)

// lifecycle holds the deletion path shared by reads, deletes and the sweeper.
type lifecycle struct {
	secretRepo SecretRepository
	auditRepo  AuditRepository
	cache      SecretCache
	logger     *slog.Logger
	now        func() time.Time
}

func newLifecycle(
	secretRepo SecretRepository,
	auditRepo AuditRepository,
	cache SecretCache,
	logger *slog.Logger,
) *lifecycle {
	return &lifecycle{
		secretRepo: secretRepo,
		auditRepo:  auditRepo,
		cache:      cache,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// purge deletes the secret and, only if this call removed the row, records the
// audit entry and evicts the cache. It returns false when another caller won.
func (l *lifecycle) purge(
	ctx context.Context,
	secret *secretsDomain.Secret,
	action secretsDomain.AuditAction,
	note string,
	meta secretsDomain.RequestMeta,
) (bool, error) {
	deleted, err := l.secretRepo.Delete(ctx, secret.ID)
	if err != nil {
		return false, err
	}
	if !deleted {
		return false, nil
	}

	// The delete is committed; follow-up work must not be cut short by the caller going away.
	ctx = context.WithoutCancel(ctx)
	l.audit(ctx, secret, action, note, meta)
	l.evict(ctx, secret)
	return true, nil
}

func (l *lifecycle) audit(
	ctx context.Context,
	secret *secretsDomain.Secret,
	action secretsDomain.AuditAction,
	note string,
	meta secretsDomain.RequestMeta,
) {
	entry := &secretsDomain.AuditEntry{
		SecretID:  secret.ID,
		Action:    action,
		ClientIP:  meta.ClientIP,
		UserAgent: meta.UserAgent,
		Timestamp: l.now(),
		Note:      note,
	}
	switch action {
	case secretsDomain.ActionCreate, secretsDomain.ActionAutoDelete, secretsDomain.ActionExpiredAccess:
		entry.TTLSeconds = secret.TTLSeconds
	}

	if err := l.auditRepo.Record(ctx, entry); err != nil {
		l.logger.Error("failed to record audit entry",
			slog.String("secret_id", secret.ID.String()),
			slog.String("action", string(action)),
			slog.Any("error", err),
		)
	}
}

func (l *lifecycle) evict(ctx context.Context, secret *secretsDomain.Secret) {
	if err := l.cache.Evict(ctx, secret.ID); err != nil {
		l.cacheDegraded(secret, "evict", err)
	}
}

func (l *lifecycle) cacheDegraded(secret *secretsDomain.Secret, operation string, err error) {
	l.logger.Warn("cache degraded",
		slog.String("secret_id", secret.ID.String()),
		slog.String("operation", operation),
		slog.Any("error", err),
	)
}
