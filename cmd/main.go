package main

import (
	"context"
	"errors"
	"os"

	"coursetrack/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	runner := NewRunner(RunnerOpts{
		Config: config,
		Logger: logger,
	})
	defer runner.Close()

	app := &cli.Command{
		Name:     "coursetrack",
		Usage:    "Turn YouTube playlists into progress-tracked courses",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrMissingCredentials) {
			logger.Error("no API key configured, run 'coursetrack setup' and edit config.toml")
			os.Exit(1)
		}
		logger.Fatalf("application error: %v", err)
	}
}
