// Package app provides logger initialization.
package app

import (
	"github.com/guttosm/shipment-optimizer/config"
	"github.com/guttosm/shipment-optimizer/internal/logger"
)

// InitializeLogger initializes the global logger from configuration.
func InitializeLogger(cfg config.LogConfig) {
	level := cfg.Level
	if level == "" {
		level = "info"
	}
	logger.Init(level, cfg.Pretty)
}
