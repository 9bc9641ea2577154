// Package logger provides structured logging that picks request and user
// fields up from the context.
package logger

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	appctx "kiosko/internal/core/context"
)

// Logger wraps zap.SugaredLogger.
type Logger struct {
	*zap.SugaredLogger
}

// Config holds logger configuration.
type Config struct {
	Level       string // debug, info, warn, error
	Development bool   // colored console output
}

// New builds a Logger. An unknown level falls back to info.
func New(cfg Config) (*Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	zc := zap.NewProductionConfig()
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	// skip the package-level helpers so callers show up in the caller field
	z, err := zc.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}
	return &Logger{z.Sugar()}, nil
}

// NewNop returns a logger that discards everything. Used by tests.
func NewNop() *Logger {
	return &Logger{zap.NewNop().Sugar()}
}

var fallback atomic.Pointer[Logger]

// Default returns the process logger set by SetDefault, or a production
// logger on stdout when none was set.
func Default() *Logger {
	if l := fallback.Load(); l != nil {
		return l
	}
	zc := zap.NewProductionConfig()
	zc.OutputPaths = []string{"stdout"}
	z, err := zc.Build(zap.AddCallerSkip(1))
	if err != nil {
		z = zap.NewNop()
	}
	l := &Logger{z.Sugar()}
	if fallback.CompareAndSwap(nil, l) {
		return l
	}
	return fallback.Load()
}

// SetDefault replaces the logger used by the package-level helpers.
func SetDefault(l *Logger) {
	fallback.Store(l)
}

// WithContext adds trace_id, request_id, user_id and role when ctx carries them.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	sugar := l.SugaredLogger
	if trace := appctx.GetTrace(ctx); trace != nil {
		sugar = sugar.With("trace_id", trace.TraceID, "request_id", trace.RequestID)
	}
	if user := appctx.GetUser(ctx); user != nil {
		sugar = sugar.With("user_id", user.UserID, "role", user.Role)
	}
	return &Logger{sugar}
}

// WithComponent names the logger after a subsystem.
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{l.SugaredLogger.Named(name)}
}

// Debug logs at debug level with the context fields.
func Debug(ctx context.Context, msg string, keysAndValues ...any) {
	Default().WithContext(ctx).Debugw(msg, keysAndValues...)
}

// Info logs at info level with the context fields.
func Info(ctx context.Context, msg string, keysAndValues ...any) {
	Default().WithContext(ctx).Infow(msg, keysAndValues...)
}

// Warn logs at warn level with the context fields.
func Warn(ctx context.Context, msg string, keysAndValues ...any) {
	Default().WithContext(ctx).Warnw(msg, keysAndValues...)
}

// Error logs at error level with the context fields.
func Error(ctx context.Context, msg string, keysAndValues ...any) {
	Default().WithContext(ctx).Errorw(msg, keysAndValues...)
}
