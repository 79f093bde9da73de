// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"
)

// Logger wraps the standard log package with leveled output to stdout plus
// an optional log file.
type Logger struct {
	file   *os.File
	logger *log.Logger
	debug  bool
	mu     sync.RWMutex
	closed bool
}

var (
	defaultLogger *Logger
	once          sync.Once
)

// Init initializes the default logger. An empty logFile logs to stdout only.
// If already initialized, returns the existing logger.
func Init(logFile string) (*Logger, error) {
	var err error
	once.Do(func() {
		defaultLogger, err = NewLogger(logFile)
	})
	return defaultLogger, err
}

// NewLogger creates a new logger instance.
func NewLogger(logFile string) (*Logger, error) {
	l := &Logger{}

	var w io.Writer = os.Stdout
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		l.file = file
		w = io.MultiWriter(os.Stdout, file)
	}

	l.logger = log.New(w, "", 0)
	return l, nil
}

// GetDefault returns the default logger, falling back to a stdout-only
// logger when Init was never called.
func GetDefault() *Logger {
	if defaultLogger == nil {
		defaultLogger = &Logger{logger: log.New(os.Stdout, "", 0)}
	}
	return defaultLogger
}

// SetDebug toggles DEBUG-level output.
func (l *Logger) SetDebug(debug bool) {
	l.mu.Lock()
	l.debug = debug
	l.mu.Unlock()
}

func (l *Logger) logMessage(level, format string, v ...interface{}) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.closed {
		return
	}
	if level == "DEBUG" && !l.debug {
		return
	}

	message := fmt.Sprintf(format, v...)
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	l.logger.Printf("[%s] [%s] %s", timestamp, level, message)
}

// Printf logs a message at INFO level.
func (l *Logger) Printf(format string, v ...interface{}) {
	l.logMessage("INFO", format, v...)
}

// Warnf logs a message at WARN level.
func (l *Logger) Warnf(format string, v ...interface{}) {
	l.logMessage("WARN", format, v...)
}

// Errorf logs a message at ERROR level.
func (l *Logger) Errorf(format string, v ...interface{}) {
	l.logMessage("ERROR", format, v...)
}

// Debugf logs a message at DEBUG level; dropped unless SetDebug(true).
func (l *Logger) Debugf(format string, v ...interface{}) {
	l.logMessage("DEBUG", format, v...)
}

// Fatalf logs a message at FATAL level and exits.
func (l *Logger) Fatalf(format string, v ...interface{}) {
	l.logMessage("FATAL", format, v...)
	os.Exit(1)
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true

	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// Package-level convenience functions
func Printf(format string, v ...interface{}) {
	GetDefault().Printf(format, v...)
}

func Warnf(format string, v ...interface{}) {
	GetDefault().Warnf(format, v...)
}

func Errorf(format string, v ...interface{}) {
	GetDefault().Errorf(format, v...)
}

func Debugf(format string, v ...interface{}) {
	GetDefault().Debugf(format, v...)
}

func Fatalf(format string, v ...interface{}) {
	GetDefault().Fatalf(format, v...)
}
