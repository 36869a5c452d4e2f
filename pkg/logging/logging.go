// Package logging provides the structured logger the scoring pipeline
// reports its checkpoints through. The interface is deliberately small so
// callers can inject their own observer; the default implementation is
// backed by zap.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Fields carries structured log context.
type Fields map[string]any

// Logger is the minimal structured logging surface used across the pipeline.
type Logger interface {
	Debug(msg string, fields Fields)
	Info(msg string, fields Fields)
	Warn(msg string, fields Fields)
	Error(msg string, fields Fields)
	WithFields(fields Fields) Logger
}

type zapLogger struct {
	base *zap.Logger
}

// NewDefaultLogger returns an info-level console logger.
func NewDefaultLogger() Logger {
	return NewLogger("info")
}

// NewLogger returns a console logger at the given level
// (debug, info, warn, error).
func NewLogger(level string) Logger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.Lock(os.Stderr),
		parseLevel(level),
	)
	return &zapLogger{base: zap.New(core)}
}

// NewNopLogger returns a logger that discards everything.
func NewNopLogger() Logger {
	return &zapLogger{base: zap.NewNop()}
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

func toZapFields(fields Fields) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		out = append(out, zap.Any(k, v))
	}
	return out
}

func (l *zapLogger) Debug(msg string, fields Fields) {
	l.base.Debug(msg, toZapFields(fields)...)
}

func (l *zapLogger) Info(msg string, fields Fields) {
	l.base.Info(msg, toZapFields(fields)...)
}

func (l *zapLogger) Warn(msg string, fields Fields) {
	l.base.Warn(msg, toZapFields(fields)...)
}

func (l *zapLogger) Error(msg string, fields Fields) {
	l.base.Error(msg, toZapFields(fields)...)
}

func (l *zapLogger) WithFields(fields Fields) Logger {
	return &zapLogger{base: l.base.With(toZapFields(fields)...)}
}
