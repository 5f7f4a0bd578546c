// Package logging builds the structured loggers used by the commands.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a production JSON logger at the given level (debug, info, warn
// or error). An unknown level falls back to info and the fallback is logged.
func New(level string) (*zap.Logger, error) {
	lvl, parseErr := zapcore.ParseLevel(strings.TrimSpace(level))
	if parseErr != nil {
		lvl = zapcore.InfoLevel
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if parseErr != nil {
		logger.Warn("unknown log level, using info", zap.String("level", level))
	}
	return logger, nil
}

// OrNop returns logger, or a no-op logger when it is nil.
func OrNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
