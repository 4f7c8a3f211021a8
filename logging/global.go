// Package logging wires log/slog for the service: text output on the console,
// JSON output in weekly rotating files, and an HTTP request middleware.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

type LoggingService struct {
	Logger *slog.Logger
	writer *RotatingLogger
}

// defaultService is replaced as a whole by InitLoggerWithOptions
var defaultService atomic.Pointer[LoggingService]

// Options configures InitLoggerWithOptions.
type Options struct {
	Dir            string // empty disables file output
	Level          slog.Level
	RetentionWeeks int
	MaxFileSize    int64
	Console        io.Writer // nil means stdout
}

// InitLogger initializes the global logger at info level with the default
// retention. An empty logDir logs to the console only.
func InitLogger(logDir string) {
	InitLoggerWithOptions(Options{
		Dir:            logDir,
		Level:          slog.LevelInfo,
		RetentionWeeks: 4,
		MaxFileSize:    defaultMaxFileSize,
	})
}

// InitLoggerWithOptions initializes the global logger and sets it as the slog default.
func InitLoggerWithOptions(opts Options) {
	logger, writer := SetupLogger(opts)
	defaultService.Store(&LoggingService{
		Logger: logger,
		writer: writer,
	})
	slog.SetDefault(logger)
}

// Close flushes and closes the rotating file, if any.
func Close() error {
	service := defaultService.Load()
	if service == nil || service.writer == nil {
		return nil
	}
	return service.writer.Close()
}

// ParseLevel maps a LOG_LEVEL value onto a slog level. Unknown values map to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// current returns the configured logger, or a stderr fallback when
// InitLogger was never called.
func current() *slog.Logger {
	service := defaultService.Load()
	if service == nil || service.Logger == nil {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	return service.Logger
}

// Package-level functions for direct access

func Info(msg string, args ...any) {
	current().Info(msg, args...)
}

func Error(msg string, args ...any) {
	current().Error(msg, args...)
}

func Warn(msg string, args ...any) {
	current().Warn(msg, args...)
}

func Debug(msg string, args ...any) {
	current().Debug(msg, args...)
}

// Logger returns the configured logger, or the stderr fallback.
func Logger() *slog.Logger {
	return current()
}
