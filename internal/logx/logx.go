// Package logx wraps go.uber.org/zap behind a nil-safe logger type so that
// every engine component can accept a *Logger without a nil check at every
// call site: a zero-value *Logger is a silent no-op rather than a nil
// pointer a caller must special-case.
package logx

import "go.uber.org/zap"

// Logger wraps a *zap.Logger. The zero value and a nil *Logger are both
// accepted by every method and behave as a no-op, so callers never need to
// guard against a caller that passed no logger; Nop(), New() and
// Production() return configured loggers.
type Logger struct {
	z *zap.Logger
}

// New wraps an existing *zap.Logger.
func New(z *zap.Logger) *Logger {
	if z == nil {
		z = zap.NewNop()
	}
	return &Logger{z: z}
}

// Nop returns a logger that discards everything, for tests and callers
// that don't want solver diagnostics.
func Nop() *Logger { return &Logger{z: zap.NewNop()} }

// Production returns a JSON-structured logger suitable for CLI use.
func Production() *Logger {
	z, err := zap.NewProduction()
	if err != nil {
		return Nop()
	}
	return &Logger{z: z}
}

func (l *Logger) zap() *zap.Logger {
	if l == nil || l.z == nil {
		return zap.NewNop()
	}
	return l.z
}

func (l *Logger) Debug(msg string, fields ...zap.Field) { l.zap().Debug(msg, fields...) }
func (l *Logger) Info(msg string, fields ...zap.Field)   { l.zap().Info(msg, fields...) }
func (l *Logger) Warn(msg string, fields ...zap.Field)   { l.zap().Warn(msg, fields...) }
func (l *Logger) Error(msg string, fields ...zap.Field)  { l.zap().Error(msg, fields...) }

// With returns a child logger with the given structured fields attached.
func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{z: l.zap().With(fields...)}
}

// Sync flushes any buffered log entries. Safe to call on a nil Logger.
func (l *Logger) Sync() error {
	if l == nil || l.z == nil {
		return nil
	}
	return l.z.Sync()
}
