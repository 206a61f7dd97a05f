package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/linskybing/csdesk/internal/config"
	"github.com/linskybing/csdesk/internal/config/db"
	"github.com/linskybing/csdesk/internal/logger"
)

// bootstrap loads configuration, installs the logger and opens the database.
func bootstrap() (*slog.Logger, error) {
	config.LoadConfig()
	log := logger.Init(config.LogLevel, config.LogFormat, os.Stderr)

	if err := db.Init(); err != nil {
		return log, fmt.Errorf("failed to initialize database: %w", err)
	}
	return log, nil
}
