package logging

import (
	"strings"

	"go.uber.org/zap"
)

var (
	// Global logger instance
	Logger *zap.Logger
	Sugar  *zap.SugaredLogger
)

// Initialize sets up the global logger.
// Level is one of "debug", "info", "warn", "error"; format is "json" or "console".
func Initialize(level, format string) error {
	var zapConfig zap.Config

	switch strings.ToLower(format) {
	case "json":
		zapConfig = zap.NewProductionConfig()
	default:
		zapConfig = zap.NewDevelopmentConfig()
	}

	parsed, err := zap.ParseAtomicLevel(strings.ToLower(level))
	if err != nil {
		parsed = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	zapConfig.Level = parsed
	zapConfig.OutputPaths = []string{"stdout"}

	logger, err := zapConfig.Build(zap.AddStacktrace(zap.ErrorLevel))
	if err != nil {
		return err
	}

	Logger = logger
	Sugar = logger.Sugar()

	return nil
}

// Sync flushes any buffered log entries.
func Sync() {
	if Logger != nil {
		// Sync can fail on stderr in some environments; not critical.
		_ = Logger.Sync()
	}
}
