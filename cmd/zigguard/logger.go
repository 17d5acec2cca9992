package main

import (
	"go.uber.org/zap"

	"github.com/viant/zigguard/internal/logging"
)

func newLogger(level, path string) *zap.Logger {
	return logging.New(level, path)
}
