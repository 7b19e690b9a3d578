// ============================================================================
// LexZig - Zig front end toolkit
// ============================================================================
//
// Package:     logging
// Description: Factory functions for creating loggers from configuration
// Author:      Mike Stoffels
// Created:     2026-10-18
// License:     MIT
// ============================================================================

package logging

import (
	"io"
	"os"
	"sync"

	mdwlog "github.com/msto63/lexzig/foundation/core/log"
)

var (
	// Global FileWriter instance, replaced by every NewLogger call with a file
	globalFileWriter *FileWriter
	fileWriterMu     sync.Mutex
)

// LoggerConfig holds configuration for creating loggers
type LoggerConfig struct {
	// Service name
	ServiceName string

	// Log level (trace, debug, info, warn, error)
	Level string

	// Output format: "json" or "text" (default: text)
	Format string

	// LogFile mirrors every line into a file (optional)
	LogFile string

	// Output is the primary destination (default: os.Stderr)
	Output io.Writer

	// Additional outputs besides the primary one
	AdditionalOutputs []io.Writer
}

// DefaultLoggerConfig returns a default configuration
func DefaultLoggerConfig(serviceName string) LoggerConfig {
	return LoggerConfig{
		ServiceName: serviceName,
		Level:       "info",
		Format:      "text",
	}
}

// NewLogger creates a Foundation logger. Unknown levels and formats fall
// back to info and text. The only error source is the log file.
func NewLogger(cfg LoggerConfig) (*mdwlog.Logger, error) {
	level, err := mdwlog.ParseLevel(cfg.Level)
	if err != nil {
		level = mdwlog.LevelInfo
	}
	format, err := mdwlog.ParseFormat(cfg.Format)
	if err != nil {
		format = mdwlog.FormatText
	}

	var output io.Writer = os.Stderr
	if cfg.Output != nil {
		output = cfg.Output
	}

	if cfg.LogFile != "" {
		fw, err := NewFileWriter(FileWriterConfig{
			Path:    cfg.LogFile,
			Primary: output,
		})
		if err != nil {
			return nil, err
		}
		replaceGlobalFileWriter(fw)
		output = fw
	}

	if len(cfg.AdditionalOutputs) > 0 {
		writers := append([]io.Writer{output}, cfg.AdditionalOutputs...)
		output = io.MultiWriter(writers...)
	}

	return mdwlog.NewWithConfig(mdwlog.Config{
		Level:  level,
		Format: format,
		Output: output,
		Name:   cfg.ServiceName,
	}), nil
}

func replaceGlobalFileWriter(fw *FileWriter) {
	fileWriterMu.Lock()
	previous := globalFileWriter
	globalFileWriter = fw
	fileWriterMu.Unlock()

	if previous != nil {
		previous.Close()
	}
}

// GetGlobalFileWriter returns the active FileWriter, or nil
func GetGlobalFileWriter() *FileWriter {
	fileWriterMu.Lock()
	defer fileWriterMu.Unlock()
	return globalFileWriter
}

// CloseGlobalFileWriter flushes and closes the active FileWriter
func CloseGlobalFileWriter() error {
	fileWriterMu.Lock()
	fw := globalFileWriter
	globalFileWriter = nil
	fileWriterMu.Unlock()

	if fw != nil {
		return fw.Close()
	}
	return nil
}

// Compatibility layer for code logging with key-value pairs

// Logger wraps the Foundation logger with a key-value API
type Logger struct {
	*mdwlog.Logger
	name string
}

// Wrap adapts an existing Foundation logger
func Wrap(base *mdwlog.Logger, name string) *Logger {
	return &Logger{
		Logger: base.WithName(name),
		name:   name,
	}
}

// Name returns the logger name
func (l *Logger) Name() string {
	return l.name
}

// WithLevel returns a new logger with the specified level
func (l *Logger) WithLevel(level Level) *Logger {
	return &Logger{
		Logger: l.Logger.WithLevel(level.Foundation()),
		name:   l.name,
	}
}

// WithRequestID returns a copy that tags every entry with requestID
func (l *Logger) WithRequestID(requestID string) *Logger {
	return &Logger{
		Logger: l.Logger.WithRequestID(requestID),
		name:   l.name,
	}
}

// Debug logs a debug message with key-value pairs
func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.Logger.Debug(msg, toFields(keysAndValues...))
}

// Info logs an info message with key-value pairs
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.Logger.Info(msg, toFields(keysAndValues...))
}

// Warn logs a warning message with key-value pairs
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.Logger.Warn(msg, toFields(keysAndValues...))
}

// Error logs an error message with key-value pairs
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.Logger.Error(msg, toFields(keysAndValues...))
}

// toFields converts key-value pairs to mdwlog.Fields. Non-string keys and
// a trailing key without value are dropped.
func toFields(keysAndValues ...interface{}) mdwlog.Fields {
	if len(keysAndValues) == 0 {
		return nil
	}

	fields := make(mdwlog.Fields)
	for i := 0; i < len(keysAndValues)-1; i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields[key] = keysAndValues[i+1]
	}
	return fields
}
