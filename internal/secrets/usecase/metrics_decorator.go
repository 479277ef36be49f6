package usecase

import (
	"context"
	"time"

	apperrors "github.com/secretdrop/secretdrop/internal/errors"
	"github.com/secretdrop/secretdrop/internal/metrics"
	secretsDomain "github.com/secretdrop/secretdrop/internal/secrets/domain"
)

// secretUseCaseWithMetrics decorates SecretUseCase with metrics instrumentation.
// Failures are labelled with their error kind, for example not_found or forbidden.
type secretUseCaseWithMetrics struct {
	next    SecretUseCase
	metrics metrics.BusinessMetrics
}

// NewSecretUseCaseWithMetrics wraps a SecretUseCase with metrics recording.
func NewSecretUseCaseWithMetrics(useCase SecretUseCase, m metrics.BusinessMetrics) SecretUseCase {
	return &secretUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Create records metrics for secret creation.
func (s *secretUseCaseWithMetrics) Create(
	ctx context.Context,
	input CreateInput,
	meta secretsDomain.RequestMeta,
) (string, error) {
	start := time.Now()
	accessKey, err := s.next.Create(ctx, input, meta)
	s.record(ctx, "secret_create", start, err)
	return accessKey, err
}

// Read records metrics for one-time reads.
func (s *secretUseCaseWithMetrics) Read(
	ctx context.Context,
	accessKey string,
	meta secretsDomain.RequestMeta,
) ([]byte, error) {
	start := time.Now()
	plaintext, err := s.next.Read(ctx, accessKey, meta)
	s.record(ctx, "secret_read", start, err)
	return plaintext, err
}

// Delete records metrics for explicit deletes.
func (s *secretUseCaseWithMetrics) Delete(
	ctx context.Context,
	accessKey string,
	passphrase []byte,
	meta secretsDomain.RequestMeta,
) error {
	start := time.Now()
	err := s.next.Delete(ctx, accessKey, passphrase, meta)
	s.record(ctx, "secret_delete", start, err)
	return err
}

func (s *secretUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = string(apperrors.KindOf(err))
	}

	s.metrics.RecordOperation(ctx, "secrets", operation, status)
	s.metrics.RecordDuration(ctx, "secrets", operation, time.Since(start), status)
}
