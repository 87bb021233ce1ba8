// Package common provides logging utilities for the application
package common

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
)

// --------------------------------------------------------------------------
// Log Levels
// --------------------------------------------------------------------------

type LogLevel int

const (
	LevelError LogLevel = iota
	LevelWarning
	LevelInfo
	LevelDebug
)

// ParseLogLevel converts a string level to a LogLevel
func ParseLogLevel(level string) (LogLevel, error) {
	switch strings.ToLower(level) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warning", "warn":
		return LevelWarning, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("invalid log level: %s. must be one of debug, info, warn, error", level)
	}
}

// --------------------------------------------------------------------------
// Named Logger
// --------------------------------------------------------------------------

// Logger is a leveled logger with custom formatting, scoped to one package
type Logger struct {
	mu     sync.Mutex
	name   string
	level  LogLevel
	logger *log.Logger
}

func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

func (l *Logger) getLevel() LogLevel {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

func (l *Logger) Debugf(format string, args ...interface{}) {
	if l.getLevel() >= LevelDebug {
		l.log("DEBUG", format, args...)
	}
}

func (l *Logger) Infof(format string, args ...interface{}) {
	if l.getLevel() >= LevelInfo {
		l.log("INFO", format, args...)
	}
}

func (l *Logger) Warningf(format string, args ...interface{}) {
	if l.getLevel() >= LevelWarning {
		l.log("WARN", format, args...)
	}
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	if l.getLevel() >= LevelError {
		l.log("ERROR", format, args...)
	}
}

// log formats and writes a log message. this internal helper is used by the public methods
func (l *Logger) log(levelStr string, format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	l.logger.Printf("%-5s | %-15s | %s", levelStr, l.name, message)
}

// --------------------------------------------------------------------------
// Logger Registry
// --------------------------------------------------------------------------

var (
	loggersMu sync.Mutex
	loggers   = map[string]*Logger{}
)

// GetLogger returns the named logger, creating it on first use.
// All loggers share the same output format and default to the info level.
func GetLogger(pkgName string) *Logger {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if l, ok := loggers[pkgName]; ok {
		return l
	}

	l := &Logger{
		name:   pkgName,
		level:  LevelInfo,
		logger: log.New(os.Stdout, "", log.Ldate|log.Ltime),
	}
	loggers[pkgName] = l
	return l
}

// SetLevelAll sets the level of every registered logger.
// Loggers created afterwards still default to info.
func SetLevelAll(level LogLevel) {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	for _, l := range loggers {
		l.SetLevel(level)
	}
}

// InitLoggers configures all loggers from the server configuration
func InitLoggers(config ServerConfig) error {
	level, err := ParseLogLevel(config.LogLevel)
	if err != nil {
		return err
	}

	// make sure the well-known loggers exist before levelling them
	for _, name := range []string{"provider", "service", "transport", "store"} {
		GetLogger(name)
	}

	SetLevelAll(level)
	return nil
}
