// Package log provides the debug log shared by every lazystage package.
// Messages are buffered until SetFile picks a destination, so output
// produced while the configuration is still loading is not lost.
package log

import (
	"io"
	"log"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation defaults used when the configuration leaves them unset.
const (
	DefaultMaxSizeMB  = 10
	DefaultMaxBackups = 3
)

// DebugLogger handles debug logging to a rotating file and/or buffering.
// It implements io.Writer to be compatible with standard log.Logger.
type DebugLogger struct {
	mu      sync.Mutex
	file    io.WriteCloser
	buffer  []byte
	discard bool
}

var (
	globalDebugLogger = &DebugLogger{}
	// stdLogger wraps our custom writer to provide standard log formatting
	stdLogger = log.New(globalDebugLogger, "", log.LstdFlags|log.Lmicroseconds)
)

// Write implements io.Writer.
// It writes to the file if set, otherwise appends to the buffer.
func (l *DebugLogger) Write(p []byte) (n int, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.discard {
		return len(p), nil
	}

	if l.file != nil {
		return l.file.Write(p)
	}

	// p might be reused by the caller
	b := make([]byte, len(p))
	copy(b, p)
	l.buffer = append(l.buffer, b...)
	return len(p), nil
}

// SetFile routes the debug log to path, rotated once it grows past
// maxSizeMB megabytes and keeping maxBackups old files. Zero values pick the
// defaults. If path is empty, discards all buffered logs and future logs.
func SetFile(path string, maxSizeMB, maxBackups int) error {
	globalDebugLogger.mu.Lock()
	defer globalDebugLogger.mu.Unlock()

	if globalDebugLogger.file != nil {
		_ = globalDebugLogger.file.Close()
		globalDebugLogger.file = nil
	}

	if path == "" {
		globalDebugLogger.discard = true
		globalDebugLogger.buffer = nil
		return nil
	}

	if maxSizeMB <= 0 {
		maxSizeMB = DefaultMaxSizeMB
	}
	if maxBackups <= 0 {
		maxBackups = DefaultMaxBackups
	}
	writer := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
	}

	// lumberjack opens the file on first write; flushing the buffer
	// surfaces permission errors now instead of on the next Printf.
	if _, err := writer.Write(globalDebugLogger.buffer); err != nil {
		_ = writer.Close()
		globalDebugLogger.discard = true
		globalDebugLogger.buffer = nil
		return err
	}

	globalDebugLogger.file = writer
	globalDebugLogger.discard = false
	globalDebugLogger.buffer = nil
	return nil
}

// Printf writes a formatted debug message via the standard logger.
func Printf(format string, args ...any) {
	stdLogger.Printf(format, args...)
}

// Println writes a debug message via the standard logger.
func Println(v ...any) {
	stdLogger.Println(v...)
}

// Close closes the debug log file if open.
func Close() error {
	globalDebugLogger.mu.Lock()
	defer globalDebugLogger.mu.Unlock()

	if globalDebugLogger.file == nil {
		return nil
	}

	err := globalDebugLogger.file.Close()
	globalDebugLogger.file = nil
	return err
}
