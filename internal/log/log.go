// Package log provides structured logging for clothespin.
// Entries carry a level, a category and a timestamp. Logging stays off unless
// --debug or CLOTHESPIN_DEBUG enables it.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Level represents log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a level name to a Level. Unknown names map to LevelDebug.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelDebug
	}
}

// Category groups related log messages.
type Category string

const (
	CatLexer   Category = "lexer"   // Tokenizer termination
	CatConfig  Category = "config"  // Configuration loading/saving
	CatCache   Category = "cache"   // Token stream cache
	CatWatcher Category = "watcher" // File watcher events
	CatBench   Category = "bench"   // Benchmark runs and history store
	CatTrace   Category = "trace"   // Tracing provider lifecycle
	CatCLI     Category = "cli"     // Command execution
)

// EnvDebug enables debug logging when set to a non-empty value.
const EnvDebug = "CLOTHESPIN_DEBUG"

// Logger writes entries at or above its minimum level.
type Logger struct {
	mu       sync.Mutex
	writer   io.Writer
	closer   io.Closer
	minLevel Level
}

var current atomic.Pointer[Logger]

// Init replaces the global logger with one appending to the file at path.
// The returned function closes the file and disables logging unless another
// Init or InitWriter has replaced the logger since.
func Init(path string, minLevel Level) (func(), error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) //nolint:gosec // G304: path is user-controlled debug log path
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	l := &Logger{writer: f, closer: f, minLevel: minLevel}
	current.Store(l)
	return func() {
		current.CompareAndSwap(l, nil)
		l.mu.Lock()
		defer l.mu.Unlock()
		if l.closer != nil {
			_ = l.closer.Close()
			l.closer, l.writer = nil, nil
		}
	}, nil
}

// InitWriter replaces the global logger with one writing every level to w.
func InitWriter(w io.Writer) {
	current.Store(&Logger{writer: w, minLevel: LevelDebug})
}

// Reset disables logging.
func Reset() {
	current.Store(nil)
}

// DebugFromEnv reports whether EnvDebug is set.
func DebugFromEnv() bool {
	return os.Getenv(EnvDebug) != ""
}

// SetMinLevel changes the minimum level of the current logger.
func SetMinLevel(level Level) {
	if l := current.Load(); l != nil {
		l.mu.Lock()
		l.minLevel = level
		l.mu.Unlock()
	}
}

// Debug logs at debug level.
func Debug(cat Category, msg string, fields ...any) {
	log(LevelDebug, cat, msg, fields...)
}

// Info logs at info level.
func Info(cat Category, msg string, fields ...any) {
	log(LevelInfo, cat, msg, fields...)
}

// Warn logs at warning level.
func Warn(cat Category, msg string, fields ...any) {
	log(LevelWarn, cat, msg, fields...)
}

// Error logs at error level.
func Error(cat Category, msg string, fields ...any) {
	log(LevelError, cat, msg, fields...)
}

// ErrorErr logs an error with the error value.
func ErrorErr(cat Category, msg string, err error, fields ...any) {
	if err != nil {
		fields = append(fields, "error", err.Error())
	} else {
		fields = append(fields, "error", "<nil>")
	}
	log(LevelError, cat, msg, fields...)
}

func log(level Level, cat Category, msg string, fields ...any) {
	l := current.Load()
	if l == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.minLevel || l.writer == nil {
		return
	}

	// Format: 2025-12-06T10:45:00 [ERROR] [lexer] message key=value key2=value2
	var b strings.Builder
	b.WriteString(time.Now().Format("2006-01-02T15:04:05"))
	fmt.Fprintf(&b, " [%s] [%s] %s", level, cat, msg)

	for i := 0; i+1 < len(fields); i += 2 {
		fmt.Fprintf(&b, " %v=%v", fields[i], fields[i+1])
	}
	// Handle odd field count - append orphan key with no value
	if len(fields)%2 != 0 {
		fmt.Fprintf(&b, " %v=<missing>", fields[len(fields)-1])
	}
	b.WriteByte('\n')

	_, _ = io.WriteString(l.writer, b.String())
}
