// Package logger provides the process-wide log sink used by the suite.
//
// Logging is off (a no-op core) until Init or InitWriter is called. Call
// sites use printf-style helpers so they read the same everywhere.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	globalLogger = zap.NewNop().Sugar()
	logFile      *os.File
	mu           sync.Mutex
)

// Init initializes the global logger with the specified log file path.
// debug enables Debug-level output.
func Init(logPath string, debug bool) error {
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	mu.Lock()
	defer mu.Unlock()

	closeLocked()
	logFile = f
	globalLogger = newLogger(f, debug)
	return nil
}

// InitWriter points the global logger at w. Used when logs should go to a
// terminal or buffer rather than a file.
func InitWriter(w io.Writer, debug bool) {
	mu.Lock()
	defer mu.Unlock()

	closeLocked()
	globalLogger = newLogger(w, debug)
}

func newLogger(w io.Writer, debug bool) *zap.SugaredLogger {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000000")
	encCfg.EncodeCaller = nil

	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), level)
	return zap.New(core).Sugar()
}

// Close flushes and closes the log file. The logger is a no-op afterwards.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	closeLocked()
}

func closeLocked() {
	_ = globalLogger.Sync()
	globalLogger = zap.NewNop().Sugar()
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}

func current() *zap.SugaredLogger {
	mu.Lock()
	defer mu.Unlock()
	return globalLogger
}

// Info logs an info message.
func Info(format string, v ...interface{}) {
	current().Infof(format, v...)
}

// Debug logs a debug message.
func Debug(format string, v ...interface{}) {
	current().Debugf(format, v...)
}

// Warn logs a warning message.
func Warn(format string, v ...interface{}) {
	current().Warnf(format, v...)
}

// Error logs an error message.
func Error(format string, v ...interface{}) {
	current().Errorf(format, v...)
}
