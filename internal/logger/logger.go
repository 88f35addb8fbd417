// Package logger provides logger construction for the server. The MCP
// server side logs with log/slog JSON handlers; the HTTP client path logs
// with zerolog. Both must write to stderr so the STDIO transport's protocol
// stream on stdout stays clean.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// NewLogger creates a new structured slog logger with the specified log
// level. Valid levels are: debug, info, warn, error
func NewLogger(level string, output io.Writer) (*slog.Logger, error) {
	var slogLevel slog.Level

	switch strings.ToLower(level) {
	case "debug":
		slogLevel = slog.LevelDebug
	case "info":
		slogLevel = slog.LevelInfo
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		return nil, fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error)", level)
	}

	if output == nil {
		output = os.Stderr
	}

	handler := slog.NewJSONHandler(output, &slog.HandlerOptions{Level: slogLevel})
	return slog.New(handler), nil
}

// NewClientLogger creates the zerolog logger used by the fetch and session
// layers, writing human-readable output to stderr.
func NewClientLogger(level string) zerolog.Logger {
	zl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		zl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zl).With().Timestamp().Logger()
}

// Default creates a slog logger with info level and stderr output
func Default() *slog.Logger {
	logger, _ := NewLogger("info", os.Stderr)
	return logger
}
