package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	secretsUseCase "github.com/secretdrop/secretdrop/internal/secrets/usecase"
)

// purgeResult is the JSON document printed by purge-expired.
type purgeResult struct {
	Purged     int   `json:"purged"`
	DurationMS int64 `json:"duration_ms"`
}

// RunPurgeExpired runs a single expiry sweep and reports how many secrets were purged.
// Each purged secret gets an auto_delete audit entry, exactly as with the background sweeper.
//
// Requirements: Database must be migrated and accessible.
func RunPurgeExpired(
	ctx context.Context,
	sweeper secretsUseCase.Sweeper,
	logger *slog.Logger,
	writer io.Writer,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	logger.Info("purging expired secrets")

	start := time.Now()
	purged, err := sweeper.RunOnce(ctx)
	if err != nil {
		return fmt.Errorf("failed to purge expired secrets: %w", err)
	}
	result := purgeResult{Purged: purged, DurationMS: time.Since(start).Milliseconds()}

	if format == formatJSON {
		if err := outputPurgeJSON(writer, result); err != nil {
			return err
		}
	} else {
		_, _ = fmt.Fprintf(writer, "Successfully purged %d expired secret(s)\n", result.Purged)
	}

	logger.Info("purge completed", slog.Int("purged", purged))
	return nil
}

// outputPurgeJSON writes the result in JSON format for machine consumption.
func outputPurgeJSON(writer io.Writer, result purgeResult) error {
	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	_, _ = fmt.Fprintln(writer, string(jsonBytes))
	return nil
}
