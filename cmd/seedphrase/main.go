package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/Davincible/seedphrase/internal/cli"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cli.LogLevel,
	}))
	slog.SetDefault(logger)

	rootCmd := cli.NewRootCommand(fmt.Sprintf("%s (built %s, commit %s)", Version, BuildTime, GitCommit))

	if err := rootCmd.Execute(); err != nil {
		slog.Error("Command execution failed", "reason", cli.ErrorKind(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
