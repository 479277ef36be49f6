package commands

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSweeper struct {
	mock.Mock
}

func (m *mockSweeper) Start(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockSweeper) RunOnce(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func TestRunPurgeExpired(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("text-output", func(t *testing.T) {
		sweeper := &mockSweeper{}
		sweeper.On("RunOnce", ctx).Return(7, nil).Once()

		var out bytes.Buffer
		err := RunPurgeExpired(ctx, sweeper, logger, &out, "text")

		require.NoError(t, err)
		require.Equal(t, "Successfully purged 7 expired secret(s)\n", out.String())
		sweeper.AssertExpectations(t)
	})

	t.Run("json-output", func(t *testing.T) {
		sweeper := &mockSweeper{}
		sweeper.On("RunOnce", ctx).Return(3, nil).Once()

		var out bytes.Buffer
		err := RunPurgeExpired(ctx, sweeper, logger, &out, "json")

		require.NoError(t, err)
		require.Contains(t, out.String(), `"purged": 3`)
		require.Contains(t, out.String(), `"duration_ms"`)
		sweeper.AssertExpectations(t)
	})

	t.Run("sweep-error", func(t *testing.T) {
		sweeper := &mockSweeper{}
		sweeper.On("RunOnce", ctx).Return(0, errors.New("store unavailable")).Once()

		var out bytes.Buffer
		err := RunPurgeExpired(ctx, sweeper, logger, &out, "text")

		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to purge expired secrets")
		require.Empty(t, out.String())
	})

	t.Run("invalid-format", func(t *testing.T) {
		sweeper := &mockSweeper{}

		err := RunPurgeExpired(ctx, sweeper, logger, &bytes.Buffer{}, "yaml")

		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid format")
		sweeper.AssertNotCalled(t, "RunOnce", mock.Anything)
	})
}
