package log

import "sync"

var (
	globalMu     sync.RWMutex
	globalLogger *Logger
)

// SetGlobal replaces the process-wide logger
func SetGlobal(l *Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalLogger = l
}

// Global returns the process-wide logger, creating a default one on first use
func Global() *Logger {
	globalMu.RLock()
	l := globalLogger
	globalMu.RUnlock()
	if l != nil {
		return l
	}

	globalMu.Lock()
	defer globalMu.Unlock()
	if globalLogger == nil {
		globalLogger = Default()
	}
	return globalLogger
}

// Debug logs at debug level on the global logger
func Debug(msg string, args ...any) {
	Global().Debug(msg, args...)
}

// Info logs at info level on the global logger
func Info(msg string, args ...any) {
	Global().Info(msg, args...)
}

// Warn logs at warn level on the global logger
func Warn(msg string, args ...any) {
	Global().Warn(msg, args...)
}

// Error logs at error level on the global logger
func Error(msg string, args ...any) {
	Global().Error(msg, args...)
}
