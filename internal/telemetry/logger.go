package telemetry

import "log"

// Logger exposes the operational logging used by the host application.
type Logger interface {
	Printf(format string, args ...any)
}

// LoggerFunc adapts functions into the Logger interface.
type LoggerFunc func(format string, args ...any)

// Printf implements Logger for LoggerFunc.
func (f LoggerFunc) Printf(format string, args ...any) {
	if f == nil {
		return
	}
	f(format, args...)
}

// WrapLogger adapts a standard library logger to the Logger interface.
func WrapLogger(logger *log.Logger) Logger {
	return &loggerAdapter{logger: logger}
}

type loggerAdapter struct {
	logger *log.Logger
}

func (l *loggerAdapter) Printf(format string, args ...any) {
	if l == nil || l.logger == nil {
		return
	}
	l.logger.Printf(format, args...)
}

// StandardLogger exposes the wrapped logger so it can back other components.
func (l *loggerAdapter) StandardLogger() *log.Logger {
	if l == nil {
		return nil
	}
	return l.logger
}

// StandardLogger returns the *log.Logger behind logger when it has one.
func StandardLogger(logger Logger) *log.Logger {
	if provider, ok := logger.(interface{ StandardLogger() *log.Logger }); ok {
		return provider.StandardLogger()
	}
	return nil
}
