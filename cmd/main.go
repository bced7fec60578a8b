package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/mtomcal/videotitan-server/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("ignoring unreadable config.toml", "error", err)
		}
	}

	runner := NewRunner(RunnerConfig{
		Config: config,
		Logger: logger,
	})

	app := &cli.Command{
		Name:     "videotitan",
		Usage:    "Import YouTube playlists into a user's published library",
		Version:  "1.0.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
