package logger

import (
	"os"
	"sync"
)

var (
	globalLogger *Logger
	mu           sync.RWMutex
)

// GetLogger returns the global logger instance
func GetLogger() *Logger {
	mu.RLock()
	l := globalLogger
	mu.RUnlock()
	if l != nil {
		return l
	}

	mu.Lock()
	defer mu.Unlock()
	if globalLogger == nil {
		defaultLevel := "info"
		if os.Getenv("DEBUG") == "true" {
			defaultLevel = "debug"
		} else if os.Getenv("LOG_LEVEL") != "" {
			defaultLevel = os.Getenv("LOG_LEVEL")
		}

		globalLogger = New(Config{
			Level:  defaultLevel,
			Format: "json",
			Output: "stdout",
		})
	}
	return globalLogger
}

// SetLogger replaces the global logger instance. Components that already
// captured a child logger keep writing through the old one.
func SetLogger(logger *Logger) {
	mu.Lock()
	globalLogger = logger
	mu.Unlock()
	SetGlobalLogger(logger)
}
