package config

import (
	"go.uber.org/zap"
)

var appLogger *zap.Logger

// InitLogger builds the application logger based on GO_ENV
func InitLogger(cfg *Config) (*zap.Logger, error) {
	var logger *zap.Logger
	var err error

	if cfg.IsProduction() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}

	appLogger = logger
	return logger, nil
}

// GetLogger returns the application logger
// Falls back to a no-op logger so tests stay quiet without setup
func GetLogger() *zap.Logger {
	if appLogger == nil {
		return zap.NewNop()
	}
	return appLogger
}

// SetLogger sets the logger instance (primarily for testing)
func SetLogger(logger *zap.Logger) {
	appLogger = logger
}
