package usecase

import (
	"context"
	"log/slog"
	"time"

	apperrors "github.com/secretdrop/secretdrop/internal/errors"
	"github.com/secretdrop/secretdrop/internal/metrics"
	secretsDomain "github.com/secretdrop/secretdrop/internal/secrets/domain"
)

const (
	defaultSweepInterval  = time.Minute
	defaultSweepBatchSize = 500
)

// SweeperConfig holds expiry sweeper configuration. Non-positive values fall back
// to one minute and 500 rows.
type SweeperConfig struct {
	Interval  time.Duration
	BatchSize int
}

// ExpirySweeper periodically purges secrets whose deadline has passed.
type ExpirySweeper struct {
	*lifecycle
	config  SweeperConfig
	metrics metrics.BusinessMetrics
}

// NewExpirySweeper creates a new ExpirySweeper.
func NewExpirySweeper(
	config SweeperConfig,
	secretRepo SecretRepository,
	auditRepo AuditRepository,
	cache SecretCache,
	businessMetrics metrics.BusinessMetrics,
	logger *slog.Logger,
) *ExpirySweeper {
	if config.Interval <= 0 {
		config.Interval = defaultSweepInterval
	}
	if config.BatchSize <= 0 {
		config.BatchSize = defaultSweepBatchSize
	}
	if businessMetrics == nil {
		businessMetrics = metrics.NewNoOpBusinessMetrics()
	}
	return &ExpirySweeper{
		lifecycle: newLifecycle(secretRepo, auditRepo, cache, logger),
		config:    config,
		metrics:   businessMetrics,
	}
}

// Start runs a sweep on every tick until ctx is cancelled.
func (s *ExpirySweeper) Start(ctx context.Context) error {
	s.logger.Info("starting expiry sweeper",
		slog.Duration("interval", s.config.Interval),
		slog.Int("batch_size", s.config.BatchSize),
	)

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("stopping expiry sweeper")
			return ctx.Err()
		case <-ticker.C:
			if _, err := s.RunOnce(ctx); err != nil {
				s.logger.Error("failed to sweep expired secrets", slog.Any("error", err))
			}
		}
	}
}

// RunOnce purges every secret that expired before the start of the run and
// returns how many this run removed. A failure on one secret is logged and the
// sweep moves past it; only listing errors and cancellation fail the run.
func (s *ExpirySweeper) RunOnce(ctx context.Context) (int, error) {
	start := time.Now()
	total, err := s.sweep(ctx)

	status := "success"
	if err != nil {
		status = string(apperrors.KindOf(err))
	}

	s.metrics.RecordOperation(ctx, "secrets", "secret_sweep", status)
	s.metrics.RecordDuration(ctx, "secrets", "secret_sweep", time.Since(start), status)
	s.metrics.RecordItems(ctx, "secrets", "secret_sweep", total)

	return total, err
}

func (s *ExpirySweeper) sweep(ctx context.Context) (int, error) {
	now := s.now()
	total := 0
	var after *secretsDomain.ExpiryCursor

	for {
		batch, err := s.secretRepo.ListExpiredAsOf(ctx, now, after, s.config.BatchSize)
		if err != nil {
			return total, err
		}

		for _, secret := range batch {
			if err := ctx.Err(); err != nil {
				return total, err
			}
			deleted, err := s.purge(
				ctx, secret, secretsDomain.ActionAutoDelete, secretsDomain.NoteAutoDelete, secretsDomain.RequestMeta{},
			)
			if err != nil {
				s.logger.Error("failed to purge expired secret",
					slog.String("secret_id", secret.ID.String()),
					slog.Any("error", err),
				)
				continue
			}
			if deleted {
				total++
			}
		}
		if err := ctx.Err(); err != nil {
			return total, err
		}

		// Rows that failed are still in the table, so the next page starts after the
		// last row seen instead of from the top.
		if len(batch) < s.config.BatchSize {
			break
		}
		last := batch[len(batch)-1]
		if last.ExpiresAt == nil {
			break
		}
		after = &secretsDomain.ExpiryCursor{ExpiresAt: *last.ExpiresAt, ID: last.ID}
	}

	if total > 0 {
		s.logger.Info("purged expired secrets", slog.Int("count", total))
	}
	return total, nil
}
