package main

import (
	"fmt"
	"log/slog"

	"github.com/phrazzld/carecompanion/internal/config"
)

// loadAppConfig loads configuration from the environment, a .env file and
// the optional config file.
func loadAppConfig(path string) (*config.Config, error) {
	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	slog.Debug("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"config_file", path != "")
	return cfg, nil
}
