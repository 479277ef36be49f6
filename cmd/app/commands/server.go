package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/secretdrop/secretdrop/internal/app"
	"github.com/secretdrop/secretdrop/internal/config"
)

// shutdownTimeout bounds the graceful shutdown of the HTTP servers.
const shutdownTimeout = 30 * time.Second

// lifecycleServer is a blocking server that stops on Shutdown.
type lifecycleServer interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// backgroundWorker runs until its context is cancelled.
type backgroundWorker interface {
	Start(ctx context.Context) error
}

// RunServer starts the API server, the metrics server and the expiry sweeper.
// Startup fails if the cache mirror does not answer within the configured retries.
// Blocks until receiving SIGINT/SIGTERM or until one component fails; then the servers
// are shut down, the sweeper stops, and the container closes Redis and the database.
func RunServer(ctx context.Context, version string) error {
	cfg := config.Load()

	gin.SetMode(cfg.GetGinMode())

	container := app.NewContainer(cfg)

	logger := container.Logger()
	logger.Info("starting server", slog.String("version", version))

	defer closeContainer(container, logger)

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := container.VerifyCache(ctx); err != nil {
		return fmt.Errorf("cache mirror unavailable: %w", err)
	}

	server, err := container.HTTPServer(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize HTTP server: %w", err)
	}
	servers := []lifecycleServer{server}

	metricsServer, err := container.MetricsServer()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics server: %w", err)
	}
	if metricsServer != nil {
		servers = append(servers, metricsServer)
	}

	var workers []backgroundWorker
	if cfg.SweeperEnabled {
		sweeper, err := container.ExpirySweeper()
		if err != nil {
			return fmt.Errorf("failed to initialize expiry sweeper: %w", err)
		}
		workers = append(workers, sweeper)
	}

	return runServers(ctx, logger, shutdownTimeout, servers, workers)
}

// runServers runs servers and workers in one errgroup. The first failure or the
// cancellation of ctx shuts every server down and stops the workers.
func runServers(
	ctx context.Context,
	logger *slog.Logger,
	timeout time.Duration,
	servers []lifecycleServer,
	workers []backgroundWorker,
) error {
	g, gctx := errgroup.WithContext(ctx)

	for _, server := range servers {
		g.Go(func() error {
			return server.Start(gctx)
		})
	}

	for _, worker := range workers {
		g.Go(func() error {
			if err := worker.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down", slog.Any("cause", context.Cause(gctx)))

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		var shutdownErrors []error
		for _, server := range servers {
			if err := server.Shutdown(shutdownCtx); err != nil {
				shutdownErrors = append(shutdownErrors, fmt.Errorf("server shutdown: %w", err))
			}
		}
		return errors.Join(shutdownErrors...)
	})

	return g.Wait()
}
