package logging

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// BadgerLogger routes Badger's printf-style logging through slog.
type BadgerLogger struct {
	logger *slog.Logger
}

func NewBadgerLogger(logger *slog.Logger) *BadgerLogger {
	return &BadgerLogger{logger: logger.With("component", "badger")}
}

func (b *BadgerLogger) Errorf(format string, args ...interface{}) {
	b.log(slog.LevelError, format, args...)
}

func (b *BadgerLogger) Warningf(format string, args ...interface{}) {
	b.log(slog.LevelWarn, format, args...)
}

func (b *BadgerLogger) Infof(format string, args ...interface{}) {
	b.log(slog.LevelInfo, format, args...)
}

func (b *BadgerLogger) Debugf(format string, args ...interface{}) {
	b.log(slog.LevelDebug, format, args...)
}

func (b *BadgerLogger) log(level slog.Level, format string, args ...interface{}) {
	ctx := context.Background()
	if !b.logger.Enabled(ctx, level) {
		return
	}
	b.logger.Log(ctx, level, strings.TrimSpace(fmt.Sprintf(format, args...)))
}
