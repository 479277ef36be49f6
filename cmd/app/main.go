// Package main provides the secretdrop CLI: the API server and its maintenance commands.
package main

import (
	"context"
	"log/slog"
	"os"
	"slices"

	"github.com/urfave/cli/v3"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func getCommands(version string) []*cli.Command {
	return slices.Concat(getSystemCommands(version), getKeyCommands())
}

func main() {
	cmd := &cli.Command{
		Name:     "secretdrop",
		Usage:    "One-time secret sharing service",
		Version:  version,
		Commands: getCommands(version),
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}
