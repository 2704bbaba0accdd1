package main

import (
	"log/slog"
	"os"

	"github.com/lite-lake/sshkit/internal/cli"
	"github.com/lite-lake/sshkit/internal/logger"
)

func main() {
	logLevel := slog.LevelInfo
	if os.Getenv("SSHKIT_DEBUG") != "" {
		logLevel = slog.LevelDebug
	}

	logger.Init(&logger.Config{
		Level:  logLevel,
		Format: os.Getenv("SSHKIT_LOG_FORMAT"),
	})

	cli.Execute()
}
