package commands

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// fakeServer blocks in Start until Shutdown is called, or fails immediately with startErr.
type fakeServer struct {
	startErr error
	stopped  chan struct{}
	once     sync.Once
	shutdown bool
	mu       sync.Mutex
}

func newFakeServer(startErr error) *fakeServer {
	return &fakeServer{startErr: startErr, stopped: make(chan struct{})}
}

func (s *fakeServer) Start(ctx context.Context) error {
	if s.startErr != nil {
		return s.startErr
	}
	<-s.stopped
	return nil
}

func (s *fakeServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.shutdown = true
	s.mu.Unlock()
	s.once.Do(func() { close(s.stopped) })
	return nil
}

func (s *fakeServer) wasShutdown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shutdown
}

// fakeWorker runs until its context ends.
type fakeWorker struct {
	stopped chan struct{}
}

func (w *fakeWorker) Start(ctx context.Context) error {
	<-ctx.Done()
	close(w.stopped)
	return ctx.Err()
}

func TestRunServers(t *testing.T) {
	defer goleak.VerifyNone(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("cancellation stops everything", func(t *testing.T) {
		api := newFakeServer(nil)
		scrape := newFakeServer(nil)
		sweeper := &fakeWorker{stopped: make(chan struct{})}

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() {
			done <- runServers(ctx, logger, time.Second,
				[]lifecycleServer{api, scrape}, []backgroundWorker{sweeper})
		}()

		cancel()

		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("runServers did not return after cancellation")
		}
		assert.True(t, api.wasShutdown())
		assert.True(t, scrape.wasShutdown())
		<-sweeper.stopped
	})

	t.Run("server failure shuts the rest down", func(t *testing.T) {
		startErr := errors.New("address already in use")
		api := newFakeServer(startErr)
		scrape := newFakeServer(nil)
		sweeper := &fakeWorker{stopped: make(chan struct{})}

		err := runServers(context.Background(), logger, time.Second,
			[]lifecycleServer{api, scrape}, []backgroundWorker{sweeper})

		assert.ErrorIs(t, err, startErr)
		assert.True(t, scrape.wasShutdown())
		<-sweeper.stopped
	})
}
