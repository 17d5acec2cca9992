// Package logging wires the ambient zap logger that the CLI builds and
// hands to the Prometheus metrics client, following the teacher's
// cmd/main.go pattern of a logger that degrades to a no-op on
// construction failure. It is built from zap's production config with
// a console encoder and zap's development encoder settings.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a *zap.Logger from the analyzer's LoggingConfig-shaped
// inputs. level must be one of "debug", "info", "warn", "error", or
// empty (treated as "info"); path is the log file destination, or
// empty for stderr.
func New(level, path string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))
	cfg.Encoding = "console"
	cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	if path != "" {
		cfg.OutputPaths = []string{path}
		cfg.ErrorOutputPaths = []string{path}
	} else {
		cfg.OutputPaths = []string{"stderr"}
		cfg.ErrorOutputPaths = []string{"stderr"}
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
